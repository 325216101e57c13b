//go:build integration

// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advisory-portal/backend/config"
	"github.com/advisory-portal/backend/internal/infra/dependency"
	"github.com/advisory-portal/backend/internal/integration/persistence/model"
	"github.com/advisory-portal/backend/test/integration/mock"
)

const (
	testJWTSecret    = "test-jwt-secret-key-for-testing-purposes"
	testResendAPIKey = "re_test_key"
)

// testContext holds the state of one scenario.
type testContext struct {
	uri      string
	headers  map[string]string
	client   *http.Client
	response *response

	db       *mock.Db
	redis    *mock.Redis
	resend   *mock.ApiMock
	timeMock *mock.Time
	injector *dependency.Injector

	accessToken       string
	refreshToken      string
	userIDs           map[string]uuid.UUID
	lastTransactionID uuid.UUID
}

type response struct {
	status  int
	headers http.Header
	raw     string
	body    any
}

var (
	suiteOnce     sync.Once
	suiteDB       *mock.Db
	suiteRedis    *mock.Redis
	suiteResend   *mock.ApiMock
	suiteClock    *mock.Time
	suiteInjector *dependency.Injector
	suiteServer   *httptest.Server
)

// InitializeTestSuite prepares the shared database, cache, Resend stub and API server.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		suiteOnce.Do(startSuite)
	})

	ctx.AfterSuite(func() {
		if suiteServer != nil {
			suiteServer.Close()
		}
		if suiteResend != nil {
			suiteResend.Close()
		}
		if suiteInjector != nil {
			_ = suiteInjector.Close()
		}
	})
}

func startSuite() {
	_ = os.Setenv("ENV", "test")
	gin.SetMode(gin.TestMode)

	suiteDB = mock.NewDb(
		&model.EmailQueueModel{},
		&model.PasswordResetTokenModel{},
		&model.RefreshTokenModel{},
		&model.TransactionModel{},
		&model.UserModel{},
	)
	suiteRedis = mock.NewRedis()
	suiteClock = mock.NewTime()
	suiteResend = mock.NewApiServer()
	suiteResend.Start()

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.Email.ResendAPIKey = testResendAPIKey
	cfg.Email.ResendBaseURL = suiteResend.GetUrl()
	cfg.Email.AppBaseURL = "http://portal.test"

	injector, err := dependency.NewInjector(cfg, suiteDB.DbConn, dependency.Options{
		RedisClient: suiteRedis.Client,
		Clock:       suiteClock.Now,
	})
	if err != nil {
		panic("failed to wire test server: " + err.Error())
	}
	suiteInjector = injector
	suiteServer = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		suiteOnce.Do(startSuite)
		return ctx, test.before()
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)
	ctx.Given(`^the current date is "([^"]*)"$`, test.theCurrentDateIs)

	// Account setup steps
	ctx.Given(`^an admin "([^"]*)" exists with password "([^"]*)"$`, test.anAdminExists)
	ctx.Given(`^an investor "([^"]*)" exists with password "([^"]*)"$`, test.anInvestorExists)
	ctx.Given(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, test.iAmLoggedInAs)

	// Ledger setup steps
	ctx.Given(`^the investor "([^"]*)" has the following transactions:$`, test.theInvestorHasTheFollowingTransactions)
	ctx.Given(`^the investor "([^"]*)" has the payout window "([^"]*)" to "([^"]*)"$`, test.theInvestorHasThePayoutWindow)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)
	ctx.When(`^the email worker processes the queue$`, test.theEmailWorkerProcessesTheQueue)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should not exist$`, test.theResponseFieldShouldNotExist)
	ctx.Then(`^the response text should contain "([^"]*)"$`, test.theResponseTextShouldContain)
	ctx.Then(`^the response header "([^"]*)" should contain "([^"]*)"$`, test.theResponseHeaderShouldContain)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)

	// Cache assertion steps
	ctx.Then(`^the portfolio summary of "([^"]*)" should be cached$`, test.thePortfolioSummaryShouldBeCached)
	ctx.Then(`^the portfolio summary of "([^"]*)" should not be cached$`, test.thePortfolioSummaryShouldNotBeCached)

	// Email assertion steps
	ctx.Then(`^Resend should have received (\d+) emails?$`, test.resendShouldHaveReceivedEmails)
	ctx.Then(`^the last email should be sent to "([^"]*)"$`, test.theLastEmailShouldBeSentTo)
	ctx.Then(`^the last email should contain "([^"]*)"$`, test.theLastEmailShouldContain)
}

func (t *testContext) before() error {
	t.uri = suiteServer.URL
	t.db = suiteDB
	t.redis = suiteRedis
	t.resend = suiteResend
	t.timeMock = suiteClock
	t.injector = suiteInjector

	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.userIDs = make(map[string]uuid.UUID)
	t.lastTransactionID = uuid.Nil

	t.timeMock.Reset()
	t.resend.ClearResponses()
	if err := t.redis.Clear(); err != nil {
		return err
	}
	return t.db.ClearDB()
}
