//go:build integration

package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/advisory-portal/backend/internal/domain/entity"
	"github.com/advisory-portal/backend/internal/integration/adapters"
	"github.com/advisory-portal/backend/internal/integration/persistence"
)

const resendEmailsPath = "/emails"

var userIDPlaceholder = regexp.MustCompile(`\{\{user_id:([^}]+)\}\}`)

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.uri + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) theCurrentDateIs(date string) error {
	return t.timeMock.SetCurrentDate(date)
}

func (t *testContext) anAdminExists(email, password string) error {
	return t.createUser(email, password, entity.RoleAdmin)
}

func (t *testContext) anInvestorExists(email, password string) error {
	return t.createUser(email, password, entity.RoleClient)
}

func (t *testContext) createUser(email, password string, role entity.UserRole) error {
	hash, err := adapters.NewPasswordService(bcrypt.MinCost).HashPassword(password)
	if err != nil {
		return err
	}

	name := strings.Split(email, "@")[0]
	user := entity.NewUser(email, name, hash, role)

	if err := persistence.NewUserRepository(t.db.DbConn).Create(context.Background(), user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", email, err)
	}
	t.userIDs[email] = user.ID
	return nil
}

func (t *testContext) iAmLoggedInAs(email, password string) error {
	payload, _ := json.Marshal(map[string]any{"email": email, "password": password})
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/login", payload); err != nil {
		return err
	}
	if t.response.status != http.StatusOK {
		return fmt.Errorf("login as %s failed with %d: %s", email, t.response.status, t.response.raw)
	}

	body, _ := t.response.body.(map[string]any)
	t.accessToken, _ = body["access_token"].(string)
	t.refreshToken, _ = body["refresh_token"].(string)
	if t.accessToken == "" {
		return fmt.Errorf("login response has no access token: %s", t.response.raw)
	}
	return nil
}

// theInvestorHasTheFollowingTransactions inserts ledger rows directly, bypassing back office validation.
// Columns: kind, category, amount, date, and optionally status (defaults to completed) and description.
func (t *testContext) theInvestorHasTheFollowingTransactions(email string, table *godog.Table) error {
	investorID, ok := t.userIDs[email]
	if !ok {
		return fmt.Errorf("unknown investor %s", email)
	}
	if len(table.Rows) < 2 {
		return errors.New("transaction table needs a header and at least one row")
	}

	columns := make(map[string]int)
	for i, cell := range table.Rows[0].Cells {
		columns[cell.Value] = i
	}
	value := func(row *messages.PickleTableRow, column string) string {
		if i, ok := columns[column]; ok && i < len(row.Cells) {
			return row.Cells[i].Value
		}
		return ""
	}

	repo := persistence.NewTransactionRepository(t.db.DbConn)
	for _, row := range table.Rows[1:] {
		amount, err := decimal.NewFromString(value(row, "amount"))
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", value(row, "amount"), err)
		}
		date, err := time.Parse(time.DateOnly, value(row, "date"))
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", value(row, "date"), err)
		}
		status := entity.TransactionStatus(value(row, "status"))
		if status == "" {
			status = entity.StatusCompleted
		}

		txn := entity.NewTransaction(
			investorID,
			entity.TransactionKind(value(row, "kind")),
			amount,
			date,
			entity.InvestmentCategory(value(row, "category")),
			status,
			value(row, "description"),
			"",
		)
		if err := repo.Create(context.Background(), txn); err != nil {
			return err
		}
		t.lastTransactionID = txn.ID
	}
	return nil
}

func (t *testContext) theInvestorHasThePayoutWindow(email, start, end string) error {
	investorID, ok := t.userIDs[email]
	if !ok {
		return fmt.Errorf("unknown investor %s", email)
	}
	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return err
	}
	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return err
	}
	return persistence.NewUserRepository(t.db.DbConn).UpdatePayoutWindow(context.Background(), investorID, startDate, endDate)
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	return userIDPlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		email := userIDPlaceholder.FindStringSubmatch(match)[1]
		if id, ok := t.userIDs[email]; ok {
			return id.String()
		}
		return uuid.Nil.String()
	})
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status:  resp.StatusCode,
		headers: resp.Header,
		raw:     string(bodyBytes),
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Remember the last transaction the API returned so later steps can address it
	if payout, ok := responseBody["payout"].(map[string]any); ok {
		responseBody = payout
	}
	if _, isTransaction := responseBody["kind"]; isTransaction {
		if id, err := uuid.Parse(fmt.Sprintf("%v", responseBody["id"])); err == nil {
			t.lastTransactionID = id
		}
	}

	return nil
}

func (t *testContext) theEmailWorkerProcessesTheQueue() error {
	t.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expectedStatus, t.response.status, t.response.raw)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %s", t.response.raw)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	actualValue := formatValue(value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldNotExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if value := getFieldValue(body, field); value != nil {
		return fmt.Errorf("field '%s' should not be present, got '%v'", field, value)
	}
	return nil
}

func (t *testContext) theResponseTextShouldContain(expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if !strings.Contains(t.response.raw, expected) {
		return fmt.Errorf("response does not contain %q: %s", expected, t.response.raw)
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldContain(header, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if actual := t.response.headers.Get(header); !strings.Contains(actual, expected) {
		return fmt.Errorf("header '%s' expected to contain %q, got %q", header, expected, actual)
	}
	return nil
}

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %s", t.response.raw)
	}
	return body, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	mdl, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(mdl).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *testContext) thePortfolioSummaryShouldBeCached(email string) error {
	cached, err := t.isSummaryCached(email)
	if err != nil {
		return err
	}
	if !cached {
		return fmt.Errorf("expected a cached portfolio summary for %s", email)
	}
	return nil
}

func (t *testContext) thePortfolioSummaryShouldNotBeCached(email string) error {
	cached, err := t.isSummaryCached(email)
	if err != nil {
		return err
	}
	if cached {
		return fmt.Errorf("expected no cached portfolio summary for %s", email)
	}
	return nil
}

func (t *testContext) isSummaryCached(email string) (bool, error) {
	investorID, ok := t.userIDs[email]
	if !ok {
		return false, fmt.Errorf("unknown investor %s", email)
	}
	keys, err := t.redis.Keys("portfolio:summary:" + investorID.String())
	if err != nil {
		return false, err
	}
	return len(keys) > 0, nil
}

func (t *testContext) resendShouldHaveReceivedEmails(quantity int) error {
	if count := t.resend.RequestCount(http.MethodPost, resendEmailsPath); count != quantity {
		return fmt.Errorf("expected %d emails sent through Resend, got %d", quantity, count)
	}
	return nil
}

func (t *testContext) theLastEmailShouldBeSentTo(email string) error {
	body := t.resend.GetRequestBody(http.MethodPost, resendEmailsPath, -1)
	if body == nil {
		return errors.New("no email was sent")
	}
	recipients, _ := body["to"].([]any)
	for _, recipient := range recipients {
		if recipient == email {
			return nil
		}
	}
	return fmt.Errorf("expected the last email to be sent to %s, got %v", email, body["to"])
}

func (t *testContext) theLastEmailShouldContain(expected string) error {
	body := t.resend.GetRequestBody(http.MethodPost, resendEmailsPath, -1)
	if body == nil {
		return errors.New("no email was sent")
	}
	for _, field := range []string{"subject", "html", "text"} {
		if content, ok := body[field].(string); ok && strings.Contains(content, expected) {
			return nil
		}
	}
	return fmt.Errorf("the last email does not contain %q: %v", expected, body)
}

// getFieldValue resolves a dot separated path. Numeric segments index into arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	current := object
	for _, part := range strings.Split(dotSeparatedField, ".") {
		switch v := current.(type) {
		case map[string]any:
			value, ok := v[part]
			if !ok {
				return nil
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return nil
			}
			current = v[index]
		default:
			return nil
		}
	}
	return current
}

func formatValue(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
