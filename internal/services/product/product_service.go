package product

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/services/notification"
	"github.com/rajivgeraev/swapify-api/internal/utils"
)

const productColumns = "id, user_id, title, description, price, category_id, condition_id, status_id, images, favorite_count, created_at, updated_at"

// ProductService представляет сервис для работы с товарами
type ProductService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	dispatcher *notification.Dispatcher
}

// NewProductService создает новый экземпляр ProductService
func NewProductService(cfg *config.Config, jwtService *utils.JWTService, dispatcher *notification.Dispatcher) *ProductService {
	return &ProductService{
		cfg:        cfg,
		jwtService: jwtService,
		dispatcher: dispatcher,
	}
}

// CreateProduct создает новый товар
func (s *ProductService) CreateProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		CategoryID  int             `json:"category_id"`
		ConditionID int             `json:"condition_id"`
		StatusID    int             `json:"status_id"`
		Images      []string        `json:"images"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if requestData.Title == "" || requestData.Description == "" ||
		requestData.CategoryID == 0 || requestData.ConditionID == 0 || requestData.StatusID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо заполнить все поля"})
	}

	if requestData.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Цена не может быть отрицательной"})
	}

	if len(requestData.Images) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо загрузить хотя бы одно изображение"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	product := models.Product{
		ID:          uuid.New(),
		UserID:      userUUID,
		Title:       requestData.Title,
		Description: requestData.Description,
		Price:       requestData.Price,
		CategoryID:  requestData.CategoryID,
		ConditionID: requestData.ConditionID,
		StatusID:    requestData.StatusID,
		Images:      requestData.Images,
	}

	err = db.Pool.QueryRow(ctx, `
        INSERT INTO products (id, user_id, title, description, price, category_id, condition_id, status_id, images)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING favorite_count, created_at, updated_at
    `, product.ID, product.UserID, product.Title, product.Description, product.Price,
		product.CategoryID, product.ConditionID, product.StatusID, product.Images).Scan(
		&product.FavoriteCount, &product.CreatedAt, &product.UpdatedAt,
	)

	if err != nil {
		log.Printf("Ошибка создания товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка создания товара"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно создан",
		"product": product,
	})
}

// GetProducts возвращает ленту товаров с фильтрами и поиском.
// Авторизованный пользователь не видит собственные товары в ленте.
func (s *ProductService) GetProducts(c fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	where, args, err := buildProductFilters(userID, productFilters{
		CategoryID:  c.Query("category_id", "all"),
		ConditionID: c.Query("condition_id", "all"),
		StatusID:    c.Query("status_id", "all"),
		Search:      c.Query("search"),
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Общее количество считаем по тем же условиям, без пагинации
	var total int
	err = db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM products "+where, args...).Scan(&total)
	if err != nil {
		log.Printf("Ошибка подсчета товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товаров"})
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		productColumns, where, len(args)-1, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товаров"})
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		log.Printf("Ошибка сканирования товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товаров"})
	}

	totalPages := (total + limit - 1) / limit

	return c.JSON(fiber.Map{
		"success":     true,
		"products":    products,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
	})
}

// GetMyProducts возвращает товары текущего пользователя
func (s *ProductService) GetMyProducts(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM products WHERE user_id = $1 ORDER BY created_at DESC
    `, productColumns), userUUID)
	if err != nil {
		log.Printf("Ошибка запроса товаров пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товаров"})
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		log.Printf("Ошибка сканирования товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товаров"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
	})
}

// GetFavoriteProducts возвращает избранные товары пользователя
func (s *ProductService) GetFavoriteProducts(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT p.id, p.user_id, p.title, p.description, p.price, p.category_id, p.condition_id, p.status_id, p.images, p.favorite_count, p.created_at, p.updated_at
        FROM favorites f
        JOIN products p ON f.product_id = p.id
        WHERE f.user_id = $1
        ORDER BY f.created_at DESC
    `, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса избранных товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения избранного"})
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		log.Printf("Ошибка сканирования товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения избранного"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"favorites": products,
	})
}

// GetProduct возвращает один товар. Маршрут публичный.
func (s *ProductService) GetProduct(c fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var p models.Product
	err = db.Pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT %s FROM products WHERE id = $1
    `, productColumns), productID).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.ConditionID,
		&p.StatusID, &p.Images, &p.FavoriteCount, &p.CreatedAt, &p.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товара"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"product": p,
	})
}

// UpdateProduct обновляет товар владельца
func (s *ProductService) UpdateProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID товара"})
	}

	var requestData struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		CategoryID  int             `json:"category_id"`
		ConditionID int             `json:"condition_id"`
		StatusID    int             `json:"status_id"`
		Images      []string        `json:"images"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if requestData.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Цена не может быть отрицательной"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем владельца: обновлять товар может только он
	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `SELECT user_id FROM products WHERE id = $1`, productID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товара"})
	}
	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Вы не можете редактировать чужой товар"})
	}

	var p models.Product
	err = db.Pool.QueryRow(ctx, fmt.Sprintf(`
        UPDATE products
        SET title=$1, description=$2, price=$3, category_id=$4, condition_id=$5, status_id=$6, images=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING %s
    `, productColumns), requestData.Title, requestData.Description, requestData.Price,
		requestData.CategoryID, requestData.ConditionID, requestData.StatusID, requestData.Images, productID).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.ConditionID,
		&p.StatusID, &p.Images, &p.FavoriteCount, &p.CreatedAt, &p.UpdatedAt,
	)

	if err != nil {
		log.Printf("Ошибка обновления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка обновления товара"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно обновлен",
		"product": p,
	})
}

// DeleteProduct удаляет товар владельца
func (s *ProductService) DeleteProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `SELECT user_id FROM products WHERE id = $1`, productID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения товара"})
	}
	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Вы не можете удалить чужой товар"})
	}

	_, err = db.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		log.Printf("Ошибка удаления товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка удаления товара"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар успешно удален",
	})
}

// productFilters описывает параметры фильтрации ленты товаров.
// Значение "all" или пустая строка означает отсутствие фильтра.
type productFilters struct {
	CategoryID  string
	ConditionID string
	StatusID    string
	Search      string
}

// buildProductFilters собирает WHERE-условие и аргументы запроса ленты.
// Непустой userID исключает товары самого пользователя.
func buildProductFilters(userID string, f productFilters) (string, []interface{}, error) {
	conditions := []string{}
	args := []interface{}{}

	if userID != "" {
		args = append(args, userID)
		conditions = append(conditions, fmt.Sprintf("user_id != $%d", len(args)))
	}

	for _, filter := range []struct {
		column string
		value  string
	}{
		{"category_id", f.CategoryID},
		{"condition_id", f.ConditionID},
		{"status_id", f.StatusID},
	} {
		if filter.value == "all" || filter.value == "" {
			continue
		}
		id, err := strconv.Atoi(filter.value)
		if err != nil {
			return "", nil, fmt.Errorf("неверное значение фильтра %s", filter.column)
		}
		args = append(args, id)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", filter.column, len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args, nil
}

// scanProducts читает строки запроса с колонками productColumns
func scanProducts(rows pgx.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Description, &p.Price, &p.CategoryID, &p.ConditionID,
			&p.StatusID, &p.Images, &p.FavoriteCount, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
