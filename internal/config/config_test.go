package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Env:          "development",
		LogLevel:     "info",
		ListenAddr:   ":8088",
		DBType:       "file",
		UsersFile:    "data/users.json",
		LogGenerator: "noclamp",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	c := validConfig()
	c.DBType = "postgres"
	assert.Error(t, c.Validate(), "postgres backend requires a DSN")
	c.DBDSN = "postgres://localhost/lisa"
	assert.NoError(t, c.Validate())

	c = validConfig()
	c.DBType = "mongo"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Env = "production"
	assert.Error(t, c.Validate(), "production requires an auth service URL")
	c.AuthServiceURL = "http://auth.internal"
	assert.NoError(t, c.Validate())

	c = validConfig()
	c.LogGenerator = "chaotic"
	assert.Error(t, c.Validate())
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("LISA_TEST_FLAG", "yes")
	assert.True(t, getEnvBool("LISA_TEST_FLAG", false))

	t.Setenv("LISA_TEST_FLAG", "0")
	assert.False(t, getEnvBool("LISA_TEST_FLAG", true))

	t.Setenv("LISA_TEST_FLAG", "maybe")
	assert.True(t, getEnvBool("LISA_TEST_FLAG", true))
}
