package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/repository/memory"
	"go-farmlink/services"
	"go-farmlink/storage"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type RouterTestSuite struct {
	suite.Suite

	store  *memory.Store
	bucket storage.Bucket
	router *gin.Engine
	farmer string
	buyer  string
	other  string
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.store = memory.NewStore()
	bucket, err := storage.NewDiskBucket(s.T().TempDir(), storage.SoilTestsBucket, "http://localhost/files")
	s.Require().NoError(err)
	s.bucket = bucket
	s.router = s.newRouter(s.store.Contracts(), middleware.NewMemoryLimiter(100, time.Minute))

	s.farmer = s.register("Farah", "farah@example.com", models.RoleFarmer)
	s.buyer = s.register("Bea", "bea@example.com", models.RoleBuyer)
	s.other = s.register("Omar", "omar@example.com", models.RoleFarmer)
}

func (s *RouterTestSuite) newRouter(contracts services.ContractRepository, limiter middleware.Limiter) *gin.Engine {
	router, err := SetupRouter(Dependencies{
		Auth:          services.NewAuthService(s.store.Profiles(), "test-secret", time.Hour),
		Profiles:      services.NewProfileService(s.store.Profiles()),
		Crops:         services.NewCropService(s.store.Crops()),
		RFQs:          services.NewRFQService(s.store.RFQs()),
		Contracts:     services.NewContractService(contracts, s.store.Profiles()),
		Soil:          services.NewSoilService(s.store.SoilTests(), s.bucket),
		Limiter:       limiter,
		MaxUploadSize: 1 << 20,
	})
	s.Require().NoError(err)
	return router
}

// failingContracts 读操作正常，写操作返回连接错误
type failingContracts struct {
	services.ContractRepository
}

func (failingContracts) Create(ctx context.Context, contract *models.Contract) error {
	return errors.New("connection refused")
}

func (failingContracts) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	return errors.New("connection refused")
}

func (s *RouterTestSuite) do(method, path, token string, body interface{}) (int, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (s *RouterTestSuite) register(name, email string, role models.Role) string {
	code, env := s.do(http.MethodPost, "/register", "", gin.H{
		"name": name, "email": email, "password": "secret1", "role": role,
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	return out.Token
}

func (s *RouterTestSuite) profileID(token string) string {
	code, env := s.do(http.MethodGet, "/me", token, nil)
	s.Require().Equal(http.StatusOK, code)
	var p models.Profile
	s.Require().NoError(json.Unmarshal(env.Data, &p))
	return p.ID
}

func (s *RouterTestSuite) TestLoginAndNavigation() {
	code, _ := s.do(http.MethodPost, "/login", "", gin.H{"email": "bea@example.com", "password": "wrong1"})
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/login", "", gin.H{"email": "bea@example.com", "password": "secret1"})
	s.Equal(http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/me/navigation", s.buyer, nil)
	s.Require().Equal(http.StatusOK, code)
	var links []models.NavLink
	s.Require().NoError(json.Unmarshal(env.Data, &links))
	labels := []string{}
	for _, l := range links {
		labels = append(labels, l.Label)
	}
	s.Contains(labels, "Buyer Dashboard")
	s.NotContains(labels, "Farmer Dashboard")
}

func (s *RouterTestSuite) TestCropMarketplaceFlow() {
	code, _ := s.do(http.MethodPost, "/crops", s.farmer, gin.H{
		"name": "Wheat", "grade": "Organic", "quantity": 100, "price": 20, "location": "Punjab",
	})
	s.Require().Equal(http.StatusCreated, code)

	code, env := s.do(http.MethodGet, "/marketplace/crops?search=wheat&grade=Organic", "", nil)
	s.Require().Equal(http.StatusOK, code)
	var listings []models.CropListing
	s.Require().NoError(json.Unmarshal(env.Data, &listings))
	s.Require().Len(listings, 1)
	s.Equal("Farah", listings[0].Farmer.Name)

	code, env = s.do(http.MethodGet, "/marketplace/crops?search=rice&grade=Organic", "", nil)
	s.Require().Equal(http.StatusOK, code)
	s.NoError(json.Unmarshal(env.Data, &listings))
	s.Empty(listings)

	code, env = s.do(http.MethodPost, "/crops", s.buyer, gin.H{
		"name": "Wheat", "grade": "Organic", "quantity": 1, "price": 1,
	})
	s.Equal(http.StatusForbidden, code)
	s.Contains(string(env.Data), models.CodeAccessRestricted)
}

func (s *RouterTestSuite) TestRFQDelete() {
	code, env := s.do(http.MethodPost, "/rfqs", s.buyer, gin.H{
		"crop": "Rice", "grade": "Grade A", "quantity": 10, "delivery_date": "2026-09-01",
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	var rfq models.RFQ
	s.Require().NoError(json.Unmarshal(env.Data, &rfq))

	code, _ = s.do(http.MethodDelete, "/rfqs/"+rfq.ID, s.buyer, nil)
	s.Equal(http.StatusNoContent, code)

	code, env = s.do(http.MethodGet, "/rfqs", s.buyer, nil)
	s.Require().Equal(http.StatusOK, code)
	var rfqs []models.RFQ
	s.Require().NoError(json.Unmarshal(env.Data, &rfqs))
	s.Empty(rfqs)

	code, _ = s.do(http.MethodDelete, "/rfqs/"+rfq.ID, s.buyer, nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *RouterTestSuite) TestContractLifecycle() {
	farmerID := s.profileID(s.farmer)

	// 采购方发起时提交的 buyer_id 被忽略
	code, env := s.do(http.MethodPost, "/contracts", s.buyer, gin.H{
		"crop": "Wheat", "price": 1500, "quantity": 20,
		"start_date": "2026-06-01", "end_date": "2026-09-30",
		"farmer_id": farmerID, "buyer_id": "someone-else",
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	var contract models.Contract
	s.Require().NoError(json.Unmarshal(env.Data, &contract))
	s.Equal(models.StatusPending, contract.Status)
	s.Equal(s.profileID(s.buyer), contract.BuyerID)

	code, _ = s.do(http.MethodPatch, "/contracts/"+contract.ID+"/status", s.other, gin.H{"status": "approved"})
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodPatch, "/contracts/"+contract.ID+"/status", s.farmer, gin.H{"status": "approved"})
	s.Require().Equal(http.StatusOK, code)

	code, env = s.do(http.MethodPatch, "/contracts/"+contract.ID+"/status", s.farmer, gin.H{"status": "pending"})
	s.Equal(http.StatusConflict, code)
	s.Contains(string(env.Data), `"from":"approved"`)

	code, env = s.do(http.MethodGet, "/contracts", s.farmer, nil)
	s.Require().Equal(http.StatusOK, code)
	var views []models.ContractView
	s.Require().NoError(json.Unmarshal(env.Data, &views))
	s.Require().Len(views, 1)
	s.Equal(models.StatusApproved, views[0].Status)
	s.Equal("Bea", views[0].Counterparty.Name)
	s.Equal([]models.ContractStatus{models.StatusCompleted}, views[0].Transitions)

	code, env = s.do(http.MethodGet, "/contracts", s.other, nil)
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(env.Data, &views))
	s.Empty(views)
}

func (s *RouterTestSuite) TestContractValidation() {
	code, env := s.do(http.MethodPost, "/contracts", s.farmer, gin.H{
		"crop": "Wheat", "price": 10,
		"start_date": "2026-06-02", "end_date": "2026-06-01",
		"buyer_id": s.profileID(s.buyer),
	})
	s.Equal(http.StatusBadRequest, code)
	s.Contains(string(env.Data), "end_date")

	code, env = s.do(http.MethodGet, "/contracts/form", s.farmer, nil)
	s.Require().Equal(http.StatusOK, code)
	var form models.ContractForm
	s.Require().NoError(json.Unmarshal(env.Data, &form))
	s.Equal("buyer_id", form.CounterpartyField)
}

func (s *RouterTestSuite) TestSoilUploadAndServe() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "report.txt")
	s.Require().NoError(err)
	_, err = part.Write([]byte("ph=6.8"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/soil-tests", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.farmer)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	var test models.SoilTest
	s.Require().NoError(json.Unmarshal(env.Data, &test))
	s.Require().NotNil(test.Advice)
	s.Contains(models.AdviceOptions, *test.Advice)

	path := strings.TrimPrefix(test.FileURL, "http://localhost")
	req = httptest.NewRequest(http.MethodGet, path, nil)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ph=6.8", w.Body.String())

	code, _ := s.do(http.MethodGet, "/soil-tests", s.buyer, nil)
	s.Equal(http.StatusForbidden, code)
}

func (s *RouterTestSuite) TestProtectedRoutesRequireToken() {
	code, _ := s.do(http.MethodGet, "/contracts", "", nil)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RouterTestSuite) createContract() models.Contract {
	code, env := s.do(http.MethodPost, "/contracts", s.farmer, gin.H{
		"crop": "Maize", "price": 900, "quantity": 5,
		"start_date": "2026-06-01", "end_date": "2026-07-01",
		"buyer_id": s.profileID(s.buyer),
	})
	s.Require().Equal(http.StatusCreated, code, env.Message)
	var contract models.Contract
	s.Require().NoError(json.Unmarshal(env.Data, &contract))
	return contract
}

func (s *RouterTestSuite) TestContractStoreFailuresReturn500() {
	contract := s.createContract()
	buyerID := s.profileID(s.buyer)
	s.router = s.newRouter(failingContracts{ContractRepository: s.store.Contracts()}, nil)

	code, env := s.do(http.MethodPost, "/contracts", s.farmer, gin.H{
		"crop": "Wheat", "price": 10, "quantity": 1,
		"start_date": "2026-06-01", "end_date": "2026-07-01",
		"buyer_id": buyerID,
	})
	s.Equal(http.StatusInternalServerError, code)
	s.Equal("Failed to create contract", env.Message)

	code, env = s.do(http.MethodPatch, "/contracts/"+contract.ID+"/status", s.buyer, gin.H{"status": "approved"})
	s.Equal(http.StatusInternalServerError, code)
	s.Equal("Failed to update contract", env.Message)

	stored, err := s.store.Contracts().Get(context.Background(), contract.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, stored.Status)
}

func (s *RouterTestSuite) TestContractStatusParsing() {
	contract := s.createContract()

	code, env := s.do(http.MethodPatch, "/contracts/"+contract.ID+"/status", s.buyer, gin.H{"status": "Approved"})
	s.Equal(http.StatusBadRequest, code)
	s.Contains(env.Message, "status")

	code, _ = s.do(http.MethodPatch, "/contracts/"+contract.ID+"/status", s.buyer, gin.H{"status": " approved "})
	s.Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodPatch, "/contracts/not-an-id/status", s.buyer, gin.H{"status": "approved"})
	s.Equal(http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, "/crops/short", s.farmer, nil)
	s.Equal(http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, "/rfqs/short", s.buyer, nil)
	s.Equal(http.StatusNotFound, code)
}

func (s *RouterTestSuite) TestForwardedForIgnoredWithoutTrustedProxies() {
	router := s.newRouter(s.store.Contracts(), middleware.NewMemoryLimiter(1, time.Minute))

	codes := []int{}
	for _, ip := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"bea@example.com","password":"secret1"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	s.Equal([]int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
