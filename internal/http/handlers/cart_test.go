package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cartkeeper/internal/config"
	"github.com/cartkeeper/internal/models"
	"github.com/cartkeeper/internal/provider"
	"github.com/cartkeeper/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:cart_api_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	container := provider.NewContainer(cfg)
	return router.SetupRouter(cfg, container), db
}

func seedAPIProduct(t *testing.T, db *gorm.DB, name string, price float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:      name,
		Price:     models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupCartAPITest(t)
	w := doJSON(t, r, http.MethodGet, "/up", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetCartWithoutCart(t *testing.T) {
	r, _ := setupCartAPITest(t)
	w := doJSON(t, r, http.MethodGet, "/cart", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Cart not found. Please create a new cart" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestAddItemCreatesCart(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)

	w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, product.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		ID       uint `json:"id"`
		Products []struct {
			ID         uint   `json:"id"`
			Name       string `json:"name"`
			Quantity   int    `json:"quantity"`
			UnitPrice  string `json:"unit_price"`
			TotalPrice string `json:"total_price"`
		} `json:"products"`
		TotalPrice string `json:"total_price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if len(body.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(body.Products))
	}
	line := body.Products[0]
	if line.ID != product.ID || line.Name != "Laptop Stand" || line.Quantity != 1 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line.UnitPrice != "10.00" || line.TotalPrice != "10.00" || body.TotalPrice != "10.00" {
		t.Fatalf("unexpected money formatting: %+v / total %s", line, body.TotalPrice)
	}
}

func TestAddItemIncrementsViaAlias(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)
	payload := fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, product.ID)

	if w := doJSON(t, r, http.MethodPost, "/cart", payload); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first add, got %d: %s", w.Code, w.Body.String())
	}
	w := doJSON(t, r, http.MethodPost, "/cart/add_items", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on increment, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Products []struct {
			Quantity int `json:"quantity"`
		} `json:"products"`
		TotalPrice string `json:"total_price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if len(body.Products) != 1 || body.Products[0].Quantity != 2 {
		t.Fatalf("unexpected products: %+v", body.Products)
	}
	if body.TotalPrice != "20.00" {
		t.Fatalf("expected total 20.00, got %s", body.TotalPrice)
	}
}

func TestAddItemQuantityBelowOne(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)

	w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d, "quantity": -1}`, product.ID))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	msgs, ok := body["quantity"]
	if !ok || len(msgs) != 1 || msgs[0] != "must be greater than or equal to 1" {
		t.Fatalf("unexpected validation body: %s", w.Body.String())
	}
}

func TestAddItemZeroQuantity(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)

	// 0 是合法输入，必须走到服务层的数量校验而不是被请求绑定拦下
	w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d, "quantity": 0}`, product.ID))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	msgs, ok := body["quantity"]
	if !ok || len(msgs) != 1 || msgs[0] != "must be greater than or equal to 1" {
		t.Fatalf("unexpected validation body: %s", w.Body.String())
	}
}

func TestAddItemMissingQuantity(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)

	w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d}`, product.ID))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddItemUnknownProductReturns404(t *testing.T) {
	r, _ := setupCartAPITest(t)
	w := doJSON(t, r, http.MethodPost, "/cart/add_item", `{"product_id": 999, "quantity": 1}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Product not found" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestAddItemMalformedBody(t *testing.T) {
	r, _ := setupCartAPITest(t)
	w := doJSON(t, r, http.MethodPost, "/cart/add_item", `{"quantity": 1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRemoveItemNotInCart(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)
	other := seedAPIProduct(t, db, "Webcam Cover", 3.60)

	if w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, product.ID)); w.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/cart/%d", other.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Product not found in cart" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestRemoveItemWithoutCart(t *testing.T) {
	r, _ := setupCartAPITest(t)
	w := doJSON(t, r, http.MethodDelete, "/cart/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Cart not found. Please create a new cart" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestRemoveItemNonNumericID(t *testing.T) {
	r, db := setupCartAPITest(t)

	// 没有购物车时先报购物车不存在
	w := doJSON(t, r, http.MethodDelete, "/cart/abc", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Cart not found. Please create a new cart" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}

	// 有购物车后报商品不在车内
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)
	if w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, product.ID)); w.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodDelete, "/cart/abc", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	body = map[string]string{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["error"] != "Product not found in cart" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestRemoveLastItemReturnsEmptyMessage(t *testing.T) {
	r, db := setupCartAPITest(t)
	product := seedAPIProduct(t, db, "Laptop Stand", 10.00)

	if w := doJSON(t, r, http.MethodPost, "/cart/add_item",
		fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, product.ID)); w.Code != http.StatusCreated {
		t.Fatalf("seed add failed: %d %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/cart/%d", product.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body["message"] != "Cart is empty" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRemoveItemReturnsRemainingCart(t *testing.T) {
	r, db := setupCartAPITest(t)
	p1 := seedAPIProduct(t, db, "Laptop Stand", 10.00)
	p2 := seedAPIProduct(t, db, "Webcam Cover", 3.60)

	for _, id := range []uint{p1.ID, p2.ID} {
		if w := doJSON(t, r, http.MethodPost, "/cart/add_item",
			fmt.Sprintf(`{"product_id": %d, "quantity": 1}`, id)); w.Code != http.StatusCreated && w.Code != http.StatusOK {
			t.Fatalf("seed add failed: %d %s", w.Code, w.Body.String())
		}
	}

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/cart/%d", p1.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Products []struct {
			ID uint `json:"id"`
		} `json:"products"`
		TotalPrice string `json:"total_price"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if len(body.Products) != 1 || body.Products[0].ID != p2.ID {
		t.Fatalf("unexpected products: %+v", body.Products)
	}
	if body.TotalPrice != "3.60" {
		t.Fatalf("expected total 3.60, got %s", body.TotalPrice)
	}
}
