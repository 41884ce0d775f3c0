package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"woodash/internal/ai"
	"woodash/internal/auth"
	"woodash/internal/db"
	"woodash/internal/ga4"
	"woodash/internal/googleads"
	"woodash/internal/historical"
	"woodash/internal/meta"
	"woodash/internal/shipping"
	"woodash/internal/woocommerce"
)

// Services holds all application services. Vendor clients stay nil
// when their credentials are missing; handlers check and degrade.
type Services struct {
	Config Config

	DB         *gorm.DB
	Woo        *woocommerce.Client
	Historical *historical.Loader
	Chat       *ai.Service
	Analytics  *ga4.Client
	Ads        *googleads.Client
	Meta       *meta.Client
	Auth       *auth.Service
	Shipping   *shipping.Repository

	// DistributorSet is the lowercase membership set used by the
	// aggregator's customer classification.
	DistributorSet map[string]bool
}

// NewServices wires the container from config. Only the database can
// return an error; every vendor client treats missing config as
// "feature off".
func NewServices(ctx context.Context, cfg Config) (*Services, error) {
	svc := &Services{
		Config:         cfg,
		Woo:            woocommerce.NewClient(cfg.WooURL, cfg.WooConsumerKey, cfg.WooConsumerSecret),
		DistributorSet: make(map[string]bool, len(cfg.DistributorEmails)),
	}
	for _, email := range cfg.DistributorEmails {
		svc.DistributorSet[strings.ToLower(email)] = true
	}

	database, err := db.NewDatabase()
	if err != nil {
		return nil, err
	}
	if database == nil {
		log.Info().Msg("no database configured, shipping costs disabled")
	}
	svc.DB = database
	svc.Shipping = shipping.NewRepository(database)

	svc.Historical = newHistoricalLoader(cfg)

	if chat, err := ai.NewService(cfg.OpenAIAPIKey, cfg.OpenAIModel); err == nil {
		svc.Chat = chat
	} else {
		log.Info().Msg("OpenAI key missing, chat endpoint disabled")
	}

	if ga, err := ga4.NewClient(ctx, cfg.GA4CredentialsJSON, cfg.GA4PropertyID); err == nil {
		svc.Analytics = ga
	} else if err != ga4.ErrNotConfigured {
		log.Warn().Err(err).Msg("GA4 client init failed, analytics disabled")
	}

	adsCfg := googleads.Config{
		ClientID:        cfg.AdsClientID,
		ClientSecret:    cfg.AdsClientSecret,
		RefreshToken:    cfg.AdsRefreshToken,
		DeveloperToken:  cfg.AdsDeveloperToken,
		CustomerID:      cfg.AdsCustomerID,
		LoginCustomerID: cfg.AdsLoginCustomerID,
	}
	if ads, err := googleads.NewClient(ctx, adsCfg); err == nil {
		svc.Ads = ads
	}

	if cfg.MetaAccessToken != "" && cfg.MetaPageID != "" {
		svc.Meta = meta.NewClient(cfg.MetaAccessToken, cfg.MetaPageID, cfg.MetaIGAccountID)
	}

	svc.Auth = auth.NewService(cfg.UsersFile, cfg.JWTSecret, cfg.TokenTTL)

	return svc, nil
}

func newHistoricalLoader(cfg Config) *historical.Loader {
	if cfg.HistoricalCSVPath != "" {
		return historical.NewLoader(historical.FileSource{Path: cfg.HistoricalCSVPath})
	}
	if cfg.HistoricalS3Bucket != "" && cfg.HistoricalS3Key != "" {
		src, err := historical.NewS3Source(cfg.HistoricalS3Region, cfg.HistoricalS3Bucket, cfg.HistoricalS3Key)
		if err != nil {
			log.Warn().Err(err).Msg("S3 snapshot source init failed, historical data disabled")
			return nil
		}
		return historical.NewLoader(src)
	}
	return nil
}
