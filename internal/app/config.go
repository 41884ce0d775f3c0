package app

import (
	"encoding/base64"
	"os"
	"strings"
	"time"
)

// Config is everything read from the environment at startup. Missing
// vendor credentials are not errors; the matching dashboard sections
// degrade to zeroed data.
type Config struct {
	Port string

	WooURL            string
	WooConsumerKey    string
	WooConsumerSecret string

	// Distributor emails classify wholesale buyers apart from retail
	// customers. Comma separated, case insensitive.
	DistributorEmails []string

	OpenAIAPIKey string
	OpenAIModel  string

	GA4PropertyID      string
	GA4CredentialsJSON []byte

	AdsClientID        string
	AdsClientSecret    string
	AdsRefreshToken    string
	AdsDeveloperToken  string
	AdsCustomerID      string
	AdsLoginCustomerID string

	MetaAccessToken string
	MetaPageID      string
	MetaIGAccountID string

	JWTSecret string
	UsersFile string
	TokenTTL  time.Duration

	// Historical snapshot location. A local path wins; otherwise the
	// S3 pair is used when both are set.
	HistoricalCSVPath string
	HistoricalS3Region string
	HistoricalS3Bucket string
	HistoricalS3Key    string

	StaticDir string
}

// LoadConfig reads the environment. godotenv has already run by the
// time this is called.
func LoadConfig() Config {
	cfg := Config{
		Port:              envOr("PORT", "8080"),
		WooURL:            strings.TrimRight(os.Getenv("WOO_URL"), "/"),
		WooConsumerKey:    os.Getenv("WOO_CONSUMER_KEY"),
		WooConsumerSecret: os.Getenv("WOO_CONSUMER_SECRET"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),

		GA4PropertyID: os.Getenv("GA4_PROPERTY_ID"),

		AdsClientID:        os.Getenv("GOOGLE_ADS_CLIENT_ID"),
		AdsClientSecret:    os.Getenv("GOOGLE_ADS_CLIENT_SECRET"),
		AdsRefreshToken:    os.Getenv("GOOGLE_ADS_REFRESH_TOKEN"),
		AdsDeveloperToken:  os.Getenv("GOOGLE_ADS_DEVELOPER_TOKEN"),
		AdsCustomerID:      strings.ReplaceAll(os.Getenv("GOOGLE_ADS_CUSTOMER_ID"), "-", ""),
		AdsLoginCustomerID: strings.ReplaceAll(os.Getenv("GOOGLE_ADS_LOGIN_CUSTOMER_ID"), "-", ""),

		MetaAccessToken: os.Getenv("META_ACCESS_TOKEN"),
		MetaPageID:      os.Getenv("META_PAGE_ID"),
		MetaIGAccountID: os.Getenv("META_IG_ACCOUNT_ID"),

		JWTSecret: envOr("JWT_SECRET", "woodash-dev-secret"),
		UsersFile: envOr("USERS_FILE", "users.json"),
		TokenTTL:  24 * time.Hour,

		HistoricalCSVPath:  os.Getenv("HISTORICAL_CSV_PATH"),
		HistoricalS3Region: envOr("HISTORICAL_S3_REGION", "us-east-1"),
		HistoricalS3Bucket: os.Getenv("HISTORICAL_S3_BUCKET"),
		HistoricalS3Key:    os.Getenv("HISTORICAL_S3_KEY"),

		StaticDir: envOr("STATIC_DIR", "public"),
	}

	if ttl, err := time.ParseDuration(os.Getenv("JWT_TTL")); err == nil && ttl > 0 {
		cfg.TokenTTL = ttl
	}

	for _, email := range strings.Split(os.Getenv("DISTRIBUTOR_EMAILS"), ",") {
		if email = strings.TrimSpace(email); email != "" {
			cfg.DistributorEmails = append(cfg.DistributorEmails, email)
		}
	}

	// Service-account JSON ships base64 encoded to survive dotenv files.
	if raw := os.Getenv("GA4_CREDENTIALS_BASE64"); raw != "" {
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			cfg.GA4CredentialsJSON = decoded
		}
	} else if path := os.Getenv("GA4_CREDENTIALS_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			cfg.GA4CredentialsJSON = data
		}
	}

	return cfg
}

// HasWooConfig reports whether the store API can be called.
func (c Config) HasWooConfig() bool {
	return c.WooURL != "" && c.WooConsumerKey != "" && c.WooConsumerSecret != ""
}

// HasOpenAI reports whether the chat endpoint can answer.
func (c Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
