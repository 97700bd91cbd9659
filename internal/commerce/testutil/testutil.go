package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/commerce/entity"
	"github.com/BuildTechDeployAiAgency/GrowShip-MVP-sub008/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "growship-test-jwt-secret"

// SetupTestDB opens an isolated in-memory sqlite database with the
// commerce schema migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing.
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing.
func GenerateTestToken(userID, email, role string, brandID *string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"email": email,
		"role":  role,
		"iss":   "growship",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}
	if brandID != nil {
		claims["brand_id"] = *brandID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DoRequest executes an HTTP request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedUser creates a user with the given role and brand scope.
func SeedUser(t *testing.T, db *gorm.DB, id, role string, brandID *string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:      id,
		Email:   id + "@test.com",
		Name:    "User " + id,
		Role:    role,
		BrandID: brandID,
		Status:  "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

// SeedProduct creates a product with the given stock level.
func SeedProduct(t *testing.T, db *gorm.DB, sku, brandID string, stock int, unitPrice float64) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             sku,
		BrandID:         brandID,
		Name:            "Product " + sku,
		UnitPrice:       unitPrice,
		QuantityInStock: stock,
		Status:          "active",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}
	return product
}

// POLineSeed describes one line for SeedPO.
type POLineSeed struct {
	SKU          string
	RequestedQty int
	UnitPrice    float64
	ProductID    *string
	Available    *int
	LineStatus   string
	ApprovedQty  int
}

// SeedPO creates a purchase order in the given status with its lines.
func SeedPO(t *testing.T, db *gorm.DB, brandID, status, createdBy string, lines []POLineSeed) *entity.PurchaseOrder {
	t.Helper()

	po := &entity.PurchaseOrder{
		ID:            uuid.New().String(),
		PONumber:      fmt.Sprintf("PO-TEST-%d", time.Now().UnixNano()%100000),
		BrandID:       brandID,
		POStatus:      status,
		PaymentStatus: entity.PaymentStatusPending,
		Currency:      "USD",
		CreatedBy:     createdBy,
	}

	var subtotal float64
	for _, seed := range lines {
		lineStatus := seed.LineStatus
		if lineStatus == "" {
			lineStatus = entity.LineStatusPending
		}
		subtotal += float64(seed.RequestedQty) * seed.UnitPrice
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ID:             uuid.New().String(),
			POID:           po.ID,
			SKU:            seed.SKU,
			ProductID:      seed.ProductID,
			RequestedQty:   seed.RequestedQty,
			ApprovedQty:    seed.ApprovedQty,
			UnitPrice:      seed.UnitPrice,
			AvailableStock: seed.Available,
			LineStatus:     lineStatus,
		})
	}
	po.Subtotal = subtotal
	po.TotalAmount = subtotal

	if err := db.Create(po).Error; err != nil {
		t.Fatalf("Failed to seed purchase order: %v", err)
	}
	return po
}
