package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/halodompet/backend/internal/models"
	"github.com/halodompet/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newAdminTestApp(t *testing.T) (*fiber.App, *gorm.DB, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AdminAuditLog{}))

	admin := &models.User{AuthID: "auth-admin", Name: "Admin", Role: "admin", AccountStatus: models.AccountStatusActive}
	require.NoError(t, db.Create(admin).Error)

	handler := NewAdminHandler(services.NewUserService(db, 14), services.NewAuditService(db))

	app := fiber.New()
	group := app.Group("/api/admin", func(c *fiber.Ctx) error {
		c.Locals("admin_user", admin)
		return c.Next()
	})
	group.Post("/activate-user", handler.ActivateUser)
	group.Post("/block-user", handler.BlockUser)
	group.Post("/extend-trial", handler.ExtendTrial)
	return app, db, admin
}

func seedTrialUser(t *testing.T, db *gorm.DB, endsIn time.Duration) *models.User {
	t.Helper()
	ends := time.Now().Add(endsIn)
	user := &models.User{
		AuthID:        "auth-" + uuid.NewString(),
		Name:          "Target",
		AccountStatus: models.AccountStatusTrial,
		TrialEndsAt:   &ends,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return &user
}

func TestExtendTrialDefaultsToSevenDays(t *testing.T) {
	app, db, _ := newAdminTestApp(t)
	target := seedTrialUser(t, db, 48*time.Hour)
	oldEnd := *target.TrialEndsAt

	resp := postJSON(t, app, "/api/admin/extend-trial", map[string]interface{}{"userId": target.ID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	reloaded := reloadUser(t, db, target.ID)
	require.NotNil(t, reloaded.TrialEndsAt)
	assert.WithinDuration(t, oldEnd.AddDate(0, 0, 7), *reloaded.TrialEndsAt, 2*time.Second)
	assert.Equal(t, models.AccountStatusTrial, reloaded.AccountStatus)
}

func TestExtendTrialExplicitDays(t *testing.T) {
	app, db, admin := newAdminTestApp(t)
	target := seedTrialUser(t, db, 48*time.Hour)
	oldEnd := *target.TrialEndsAt

	resp := postJSON(t, app, "/api/admin/extend-trial", map[string]interface{}{"userId": target.ID, "days": 30})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	reloaded := reloadUser(t, db, target.ID)
	require.NotNil(t, reloaded.TrialEndsAt)
	assert.WithinDuration(t, oldEnd.AddDate(0, 0, 30), *reloaded.TrialEndsAt, 2*time.Second)

	var audit models.AdminAuditLog
	require.NoError(t, db.First(&audit, "target_user_id = ?", target.ID).Error)
	assert.Equal(t, admin.ID, audit.AdminID)
	assert.Equal(t, "extend_trial", audit.Action)
}

func TestExtendTrialRejectsNegativeDays(t *testing.T) {
	app, db, _ := newAdminTestApp(t)
	target := seedTrialUser(t, db, 48*time.Hour)

	resp := postJSON(t, app, "/api/admin/extend-trial", map[string]interface{}{"userId": target.ID, "days": -3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestActivateUserClearsTrialWindow(t *testing.T) {
	app, db, _ := newAdminTestApp(t)
	target := seedTrialUser(t, db, -24*time.Hour)

	resp := postJSON(t, app, "/api/admin/activate-user", map[string]interface{}{"userId": target.ID})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	reloaded := reloadUser(t, db, target.ID)
	assert.Equal(t, models.AccountStatusActive, reloaded.AccountStatus)
	assert.Nil(t, reloaded.TrialEndsAt)
}

func TestBlockUserUnknownTarget(t *testing.T) {
	app, _, _ := newAdminTestApp(t)

	resp := postJSON(t, app, "/api/admin/block-user", map[string]interface{}{"userId": uuid.New()})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
