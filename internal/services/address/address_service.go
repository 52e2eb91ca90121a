package address

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/utils"
)

// AddressService представляет сервис для работы с адресами пользователя
type AddressService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAddressService создает новый экземпляр AddressService
func NewAddressService(cfg *config.Config, jwtService *utils.JWTService) *AddressService {
	return &AddressService{
		cfg:        cfg,
		jwtService: jwtService,
	}
}

// addressRequest представляет тело запроса создания/обновления адреса
type addressRequest struct {
	Title          string `json:"title"`
	FullName       string `json:"full_name"`
	PhoneNumber    string `json:"phone_number"`
	Country        string `json:"country"`
	City           string `json:"city"`
	District       string `json:"district"`
	Neighborhood   string `json:"neighborhood"`
	Street         string `json:"street"`
	BuildingNo     string `json:"building_no"`
	ApartmentNo    string `json:"apartment_no"`
	PostalCode     string `json:"postal_code"`
	AdditionalInfo string `json:"additional_info"`
}

// hasRequiredFields проверяет обязательные поля (neighborhood и
// additional_info опциональны)
func (r *addressRequest) hasRequiredFields() bool {
	return r.Title != "" && r.FullName != "" && r.PhoneNumber != "" &&
		r.Country != "" && r.City != "" && r.District != "" && r.Street != "" &&
		r.BuildingNo != "" && r.ApartmentNo != "" && r.PostalCode != ""
}

// AddAddress добавляет новый адрес
func (s *AddressService) AddAddress(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	var requestData addressRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if !requestData.hasRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо заполнить все обязательные поля"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	address := models.Address{
		ID:             uuid.New(),
		UserID:         userUUID,
		Title:          requestData.Title,
		FullName:       requestData.FullName,
		PhoneNumber:    requestData.PhoneNumber,
		Country:        requestData.Country,
		City:           requestData.City,
		District:       requestData.District,
		Neighborhood:   requestData.Neighborhood,
		Street:         requestData.Street,
		BuildingNo:     requestData.BuildingNo,
		ApartmentNo:    requestData.ApartmentNo,
		PostalCode:     requestData.PostalCode,
		AdditionalInfo: requestData.AdditionalInfo,
	}

	err = db.Pool.QueryRow(ctx, `
        INSERT INTO addresses (id, user_id, title, full_name, phone_number, country, city, district, neighborhood, street, building_no, apartment_no, postal_code, additional_info)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING created_at
    `, address.ID, address.UserID, address.Title, address.FullName, address.PhoneNumber,
		address.Country, address.City, address.District, address.Neighborhood, address.Street,
		address.BuildingNo, address.ApartmentNo, address.PostalCode, address.AdditionalInfo).Scan(&address.CreatedAt)

	if err != nil {
		log.Printf("Ошибка добавления адреса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка добавления адреса"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Адрес успешно добавлен",
		"address": address,
	})
}

// GetAddresses возвращает адреса пользователя, новые первыми
func (s *AddressService) GetAddresses(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
        SELECT id, user_id, title, full_name, phone_number, country, city, district, neighborhood, street, building_no, apartment_no, postal_code, additional_info, created_at
        FROM addresses
        WHERE user_id = $1
        ORDER BY created_at DESC
    `, userUUID)
	if err != nil {
		log.Printf("Ошибка запроса адресов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения адресов"})
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Title, &a.FullName, &a.PhoneNumber, &a.Country, &a.City,
			&a.District, &a.Neighborhood, &a.Street, &a.BuildingNo, &a.ApartmentNo,
			&a.PostalCode, &a.AdditionalInfo, &a.CreatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		addresses = append(addresses, a)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"addresses": addresses,
	})
}

// UpdateAddress обновляет адрес пользователя
func (s *AddressService) UpdateAddress(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID адреса"})
	}

	var requestData addressRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if !requestData.hasRequiredFields() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо заполнить все обязательные поля"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Обновление ограничено владельцем адреса
	var address models.Address
	err = db.Pool.QueryRow(ctx, `
        UPDATE addresses
        SET title=$1, full_name=$2, phone_number=$3, country=$4, city=$5,
            district=$6, neighborhood=$7, street=$8, building_no=$9,
            apartment_no=$10, postal_code=$11, additional_info=$12
        WHERE id=$13 AND user_id=$14
        RETURNING id, user_id, title, full_name, phone_number, country, city, district, neighborhood, street, building_no, apartment_no, postal_code, additional_info, created_at
    `, requestData.Title, requestData.FullName, requestData.PhoneNumber, requestData.Country,
		requestData.City, requestData.District, requestData.Neighborhood, requestData.Street,
		requestData.BuildingNo, requestData.ApartmentNo, requestData.PostalCode, requestData.AdditionalInfo,
		addressID, userUUID).Scan(
		&address.ID, &address.UserID, &address.Title, &address.FullName, &address.PhoneNumber,
		&address.Country, &address.City, &address.District, &address.Neighborhood, &address.Street,
		&address.BuildingNo, &address.ApartmentNo, &address.PostalCode, &address.AdditionalInfo, &address.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Адрес не найден"})
		}
		log.Printf("Ошибка обновления адреса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка обновления адреса"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Адрес успешно обновлен",
		"address": address,
	})
}

// DeleteAddress удаляет адрес пользователя
func (s *AddressService) DeleteAddress(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID адреса"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
        DELETE FROM addresses WHERE id = $1 AND user_id = $2
    `, addressID, userUUID)
	if err != nil {
		log.Printf("Ошибка удаления адреса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка удаления адреса"})
	}
	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Адрес не найден"})
	}

	// Если удаленный адрес был основным, сбрасываем ссылку у пользователя
	_, err = db.Pool.Exec(ctx, `
        UPDATE users SET primary_address_id = NULL WHERE id = $1 AND primary_address_id = $2
    `, userUUID, addressID)
	if err != nil {
		log.Printf("Ошибка сброса основного адреса: %v", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Адрес успешно удален",
	})
}

// SetPrimaryAddress назначает адрес основным
func (s *AddressService) SetPrimaryAddress(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID адреса"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что адрес принадлежит пользователю
	var exists bool
	err = db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM addresses WHERE id = $1 AND user_id = $2)
    `, addressID, userUUID).Scan(&exists)
	if err != nil {
		log.Printf("Ошибка проверки адреса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка проверки адреса"})
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Адрес не найден"})
	}

	_, err = db.Pool.Exec(ctx, `
        UPDATE users SET primary_address_id = $1 WHERE id = $2
    `, addressID, userUUID)
	if err != nil {
		log.Printf("Ошибка назначения основного адреса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка назначения основного адреса"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Основной адрес назначен",
	})
}
