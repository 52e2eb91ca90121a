package user

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/utils"
)

// UserService представляет сервис для регистрации и аутентификации
type UserService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewUserService создает новый экземпляр UserService
func NewUserService(cfg *config.Config, jwtService *utils.JWTService) *UserService {
	return &UserService{
		cfg:        cfg,
		jwtService: jwtService,
	}
}

// Register регистрирует нового пользователя
func (s *UserService) Register(c fiber.Ctx) error {
	var requestData struct {
		Username  string `json:"username"`
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if requestData.Username == "" || requestData.FirstName == "" || requestData.LastName == "" ||
		requestData.Email == "" || requestData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо заполнить все поля"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, не занят ли email или username
	var exists bool
	err := db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)
    `, requestData.Email, requestData.Username).Scan(&exists)
	if err != nil {
		log.Printf("Ошибка проверки существующего пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка проверки пользователя"})
	}
	if exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Пользователь уже существует"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(requestData.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка регистрации"})
	}

	user := models.User{
		ID:        uuid.New(),
		Username:  requestData.Username,
		FirstName: requestData.FirstName,
		LastName:  requestData.LastName,
		Email:     requestData.Email,
	}

	err = db.Pool.QueryRow(ctx, `
        INSERT INTO users (id, username, firstname, lastname, email, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `, user.ID, user.Username, user.FirstName, user.LastName, user.Email, string(hashedPassword)).Scan(&user.CreatedAt)

	if err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка регистрации"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Пользователь успешно зарегистрирован",
		"user":    user,
	})
}

// Login аутентифицирует по email или username
func (s *UserService) Login(c fiber.Ctx) error {
	var requestData struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if requestData.Identifier == "" || requestData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо заполнить все поля"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var user models.User
	var passwordHash string
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, firstname, lastname, email, COALESCE(avatar_url, '') AS avatar_url, password_hash
        FROM users
        WHERE email = $1 OR username = $1
    `, requestData.Identifier).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.AvatarURL, &passwordHash,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверные учетные данные"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка входа"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(requestData.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверные учетные данные"})
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации access токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка входа"})
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации refresh токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка входа"})
	}

	// Сохраняем refresh токен, чтобы его можно было отозвать
	_, err = db.Pool.Exec(ctx, `
        UPDATE users SET refresh_token = $1 WHERE id = $2
    `, refreshToken, user.ID)
	if err != nil {
		log.Printf("Ошибка сохранения refresh токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка входа"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       "Вход выполнен",
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken выдает новый access токен по refresh токену
func (s *UserService) RefreshToken(c fiber.Ctx) error {
	var requestData struct {
		Token string `json:"token"`
	}

	if err := c.Bind().Body(&requestData); err != nil || requestData.Token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Недействительный токен"})
	}

	// Проверяем подпись и срок жизни
	if _, err := s.jwtService.ExtractUserIDFromRefresh(requestData.Token); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Недействительный токен"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Токен должен совпадать с сохраненным — так выданные ранее
	// refresh токены отзываются при каждом новом входе
	var user models.User
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, firstname, lastname, email, COALESCE(avatar_url, '') AS avatar_url
        FROM users
        WHERE refresh_token = $1
    `, requestData.Token).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.AvatarURL,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Недействительный токен"})
		}
		log.Printf("Ошибка запроса пользователя по refresh токену: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка обновления токена"})
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации access токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка обновления токена"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Токен обновлен",
		"user":         user,
		"access_token": accessToken,
	})
}

// Me возвращает профиль текущего пользователя
func (s *UserService) Me(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var user models.User
	err = db.Pool.QueryRow(ctx, `
        SELECT id, username, firstname, lastname, email, COALESCE(avatar_url, '') AS avatar_url, created_at
        FROM users
        WHERE id = $1
    `, userUUID).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email, &user.AvatarURL, &user.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения профиля"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
