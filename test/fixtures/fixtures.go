package fixtures

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/subtrack/reminder-gateway/internal/repository"
	"github.com/subtrack/reminder-gateway/pkg/pg"
	"github.com/subtrack/reminder-gateway/pkg/redis"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.OperatorEntity{},
		&repository.ClientEntity{},
		&repository.ScheduleSettingsEntity{},
		&repository.MessageTemplateEntity{},
		&repository.DeliveryLogEntity{},
		&repository.OperatorNoticeEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.Adapter) {
	mr := miniredis.RunT(t)

	adapter, err := redis.NewAdapter(t.Name(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestOperator(t *testing.T, db *pg.DB, id int64, telegramID string) *repository.OperatorEntity {
	ctx := context.Background()
	op := &repository.OperatorEntity{
		ID:         id,
		TelegramID: telegramID,
		Name:       "Operator " + telegramID,
		IsActive:   true,
		IsTrial:    false,
	}
	err := db.Write(ctx).Create(op).Error
	require.NoError(t, err)
	return op
}

func CreateTestClient(t *testing.T, db *pg.DB, id, operatorID int64, name string, dueDate time.Time) *repository.ClientEntity {
	ctx := context.Background()
	c := &repository.ClientEntity{
		ID:                   id,
		OperatorID:           operatorID,
		Name:                 name,
		Phone:                "11988880001",
		PlanName:             "Premium",
		PlanPrice:            49.9,
		DueDate:              dueDate,
		Status:               "active",
		AutoRemindersEnabled: true,
	}
	err := db.Write(ctx).Create(c).Error
	require.NoError(t, err)
	return c
}

func CreateTestTemplate(t *testing.T, db *pg.DB, operatorID int64, category, content string) *repository.MessageTemplateEntity {
	ctx := context.Background()
	tpl := &repository.MessageTemplateEntity{
		OperatorID: operatorID,
		Category:   category,
		Content:    content,
		IsActive:   true,
	}
	err := db.Write(ctx).Create(tpl).Error
	require.NoError(t, err)
	return tpl
}

func CreateTestSettings(t *testing.T, db *pg.DB, operatorID int64, morning, report string) *repository.ScheduleSettingsEntity {
	ctx := context.Background()
	s := &repository.ScheduleSettingsEntity{
		OperatorID:          operatorID,
		MorningReminderTime: morning,
		DailyReportTime:     report,
		AutoSendEnabled:     true,
		ReportEnabled:       true,
	}
	err := db.Write(ctx).Create(s).Error
	require.NoError(t, err)
	return s
}

func Ptr[T any](v T) *T {
	return &v
}
