package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_OverpassMirrors(t *testing.T) {
	os.Setenv("OVERPASS_MIRRORS", "https://a.example/api, https://b.example/api")
	os.Setenv("OVERPASS_ATTEMPT_TIMEOUT", "5s")
	defer func() {
		os.Unsetenv("OVERPASS_MIRRORS")
		os.Unsetenv("OVERPASS_ATTEMPT_TIMEOUT")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, []string{"https://a.example/api", "https://b.example/api"}, cfg.Overpass.Mirrors)
	assert.Equal(t, 5*time.Second, cfg.Overpass.AttemptTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("OVERPASS_MIRRORS")
	os.Unsetenv("DB_NAME")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Len(t, cfg.Overpass.Mirrors, 3)
	assert.Equal(t, "https://overpass-api.de/api/interpreter", cfg.Overpass.Mirrors[0])
	assert.Equal(t, "carto_sante", cfg.Database.Database)
	assert.Equal(t, "development", cfg.Environment)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "carto", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=carto sslmode=disable", cfg.DatabaseDSN())
}
