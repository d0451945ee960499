package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// TODO: We should probably use some library if there is need for additional functionality

// EnvVarStr - retrieves value of string environment variable, while applying default
func EnvVarStr(varName string, defaultValue string) string {
	value := os.Getenv(varName)

	if value == "" {
		return defaultValue
	}

	return value
}

// EnvVarBool - retrieves value of boolean environment variable, fails if variable contains non-boolean value
func EnvVarBool(varName string, defaultValue bool) bool {
	value := EnvVarStr(varName, "")
	if value == "true" {
		return true
	} else if value == "false" {
		return false
	} else if value == "" {
		return defaultValue
	}

	log.Fatal().Msgf("Unexpected value for boolean environment variable %v (allowed values true, false)", varName)
	return false
}

// EnvVarInt - retrieves value of integer environment variable, fails if variable contains non-integer value
func EnvVarInt(varName string, defaultValue int) int {
	valueStr, found := os.LookupEnv(varName)

	if !found {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatal().Msgf("Unexpected value %v for integer environment variable %v", valueStr, varName)
	}

	return value
}

// EnvVarSeconds - retrieves value of environment variable reperesenting duration in seconds, fails if variable non-parseable values
func EnvVarSeconds(varName string, defaultValue time.Duration) time.Duration {
	valueStr, found := os.LookupEnv(varName)

	if !found {
		return defaultValue
	}

	valueInt, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Fatal().Msgf("Unexpected value %v for environment variable %v", valueStr, varName)
	}

	value := time.Duration(valueInt) * time.Second

	return value
}

// EnvVarMillis - retrieves value of environment variable reperesenting duration in milliseconds, fails if variable non-parseable values
func EnvVarMillis(varName string, defaultValue time.Duration) time.Duration {
	valueStr, found := os.LookupEnv(varName)

	if !found {
		return defaultValue
	}

	valueInt, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Fatal().Msgf("Unexpected value %v for environment variable %v", valueStr, varName)
	}

	value := time.Duration(valueInt) * time.Millisecond

	return value
}

// LoadDotEnvFile - Loads environment variables from .env file in the current working directory (if found)
func LoadDotEnvFile() {
	absFilepath, filePathErr := filepath.Abs(".env")
	if filePathErr != nil {
		log.Fatal().Str("path", absFilepath).Err(filePathErr).Msg("Unable to retrieve absolute file path")
	}

	// loads values from .env into the system
	if err := godotenv.Load(absFilepath); err != nil {
		log.Info().Str("path", absFilepath).Msg("No .env file found. Using only environment variables")
	} else {
		log.Info().Str("path", absFilepath).Msg("Additional environment variables loaded from .env file")
	}
}
