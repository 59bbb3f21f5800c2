package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("TEST_DATABASE_ENGINE", "Postgres")
	t.Setenv("TEST_DATABASE_ADMINUSER", "postgres")
	t.Setenv("TEST_CALENDAR_BASEURL", "http://calendar.test")

	conf := NewConfig()
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "Classroom", conf.AppName)
	assert.Equal(t, 8080, conf.Server.Port)
	assert.Equal(t, ":8080", conf.Server.Address())
	assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
	assert.Equal(t, EnginePostgres, conf.Database.Engine)
	assert.Equal(t, "postgres", conf.Database.AdminUser)
	assert.Equal(t, "classroom", conf.Database.Name)
	assert.Equal(t, "http://calendar.test", conf.Calendar.BaseURL)
	assert.Equal(t, 10*time.Second, conf.Calendar.Timeout)
}
