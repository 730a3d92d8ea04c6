package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ean-extractor/internal/models"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	ProviderGemini   = "gemini"
	ProviderGigaChat = "gigachat"
)

type Config struct {
	Server     ServerConfig
	Provider   string
	Gemini     GeminiConfig
	GigaChat   GigaChatConfig
	Model      ModelConfig
	Extraction ExtractionConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxUploadMB  int
}

type GeminiConfig struct {
	APIKey string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
	// PDFMode is "upload" (send the PDF as an attachment) or "text"
	// (extract page text locally and send it as plain prompt content).
	PDFMode string
}

// ModelConfig drives model selection.
type ModelConfig struct {
	// Name pins a model and skips enumeration when set.
	Name            string
	PreferredMarker string
	FamilyMarker    string
	Default         string
}

type ExtractionConfig struct {
	Policy           models.CodePolicy
	Timeout          time.Duration
	DownloadFileName string
}

// fileConfig mirrors the keys accepted in the optional TOML file.
type fileConfig struct {
	Provider string `toml:"provider"`
	Server   struct {
		Port        string `toml:"port"`
		MaxUploadMB int    `toml:"max_upload_mb"`
	} `toml:"server"`
	GigaChat struct {
		Scope   string `toml:"scope"`
		PDFMode string `toml:"pdf_mode"`
	} `toml:"gigachat"`
	Model struct {
		Name            string `toml:"name"`
		PreferredMarker string `toml:"preferred_marker"`
		FamilyMarker    string `toml:"family_marker"`
		Default         string `toml:"default"`
	} `toml:"model"`
	Extraction struct {
		Policy           string `toml:"code_policy"`
		TimeoutSeconds   int    `toml:"timeout_seconds"`
		DownloadFileName string `toml:"download_filename"`
	} `toml:"extraction"`
	Logger struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"logger"`
}

// Load reads .env (if any), the optional TOML file named by
// EXTRACTOR_CONFIG_FILE and the environment. Environment variables win over
// the file, the file wins over built-in defaults.
func Load() (*Config, error) {
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	var file fileConfig
	if path := os.Getenv("EXTRACTOR_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	return fromEnv(file)
}

func fromEnv(file fileConfig) (*Config, error) {
	readTimeout, err := getInt("SERVER_READ_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getInt("SERVER_WRITE_TIMEOUT", 180)
	if err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_MB", orInt(file.Server.MaxUploadMB, 20))
	if err != nil {
		return nil, err
	}
	timeout, err := getInt("EXTRACTION_TIMEOUT", orInt(file.Extraction.TimeoutSeconds, 120))
	if err != nil {
		return nil, err
	}
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "false") == "true"

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", or(file.Server.Port, "8080")),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			MaxUploadMB:  maxUpload,
		},
		Provider: strings.ToLower(getEnv("PROVIDER", or(file.Provider, ProviderGemini))),
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", or(file.GigaChat.Scope, "GIGACHAT_API_PERS")),
			InsecureSkipVerify: insecureSkipVerify,
			PDFMode:            getEnv("GIGACHAT_PDF_MODE", or(file.GigaChat.PDFMode, "upload")),
		},
		Model: ModelConfig{
			Name:            getEnv("MODEL_NAME", file.Model.Name),
			PreferredMarker: getEnv("MODEL_PREFERRED_MARKER", or(file.Model.PreferredMarker, "gemini-1.5")),
			FamilyMarker:    getEnv("MODEL_FAMILY_MARKER", or(file.Model.FamilyMarker, "gemini")),
			Default:         getEnv("MODEL_DEFAULT", or(file.Model.Default, "gemini-1.5-flash")),
		},
		Extraction: ExtractionConfig{
			Policy:           models.CodePolicy(getEnv("CODE_POLICY", or(file.Extraction.Policy, string(models.CodePolicyFixed13)))),
			Timeout:          time.Duration(timeout) * time.Second,
			DownloadFileName: getEnv("DOWNLOAD_FILENAME", or(file.Extraction.DownloadFileName, "ean_quantita.txt")),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", or(file.Logger.Level, "info")),
			Format: getEnv("LOG_FORMAT", or(file.Logger.Format, "json")),
		},
	}

	if cfg.Provider == ProviderGigaChat {
		// GigaChat model names carry no gemini markers.
		if os.Getenv("MODEL_PREFERRED_MARKER") == "" && file.Model.PreferredMarker == "" {
			cfg.Model.PreferredMarker = "GigaChat-2-Max"
		}
		if os.Getenv("MODEL_FAMILY_MARKER") == "" && file.Model.FamilyMarker == "" {
			cfg.Model.FamilyMarker = "GigaChat"
		}
		if os.Getenv("MODEL_DEFAULT") == "" && file.Model.Default == "" {
			cfg.Model.Default = "GigaChat"
		}
	}

	return cfg, nil
}

// Validate checks settings that make the session unusable.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: provider API key not found: set GEMINI_API_KEY", models.ErrConfiguration)
		}
	case ProviderGigaChat:
		if c.GigaChat.APIKey == "" {
			return fmt.Errorf("%w: provider API key not found: set GIGACHAT_API_KEY", models.ErrConfiguration)
		}
		if c.GigaChat.PDFMode != "upload" && c.GigaChat.PDFMode != "text" {
			return fmt.Errorf("%w: GIGACHAT_PDF_MODE must be upload or text, got %q", models.ErrConfiguration, c.GigaChat.PDFMode)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", models.ErrConfiguration, c.Provider)
	}

	if !c.Extraction.Policy.Valid() {
		return fmt.Errorf("%w: CODE_POLICY must be fixed13 or native, got %q", models.ErrConfiguration, c.Extraction.Policy)
	}
	if c.Extraction.Timeout <= 0 {
		return fmt.Errorf("%w: EXTRACTION_TIMEOUT must be positive", models.ErrConfiguration)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}
