package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Community CommunityConfig
	Tracking  TrackingConfig
	Roles     RolesConfig
	Digest    DigestConfig
	Dashboard DashboardConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GHOSTRANK_APP_ENV" required:"true"`
	Port         string `envconfig:"GHOSTRANK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GHOSTRANK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GHOSTRANK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GHOSTRANK_DB_DSN"`
	Driver string `envconfig:"GHOSTRANK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GHOSTRANK_DB_HOST"`
	LegacyPort     int    `envconfig:"GHOSTRANK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GHOSTRANK_DB_USER"`
	LegacyPassword string `envconfig:"GHOSTRANK_DB_PASSWORD"`
	LegacyName     string `envconfig:"GHOSTRANK_DB_NAME"`
	LegacySSLMode  string `envconfig:"GHOSTRANK_DB_SSLMODE" default:"disable"`

	AutoMigrate bool `envconfig:"GHOSTRANK_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"GHOSTRANK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GHOSTRANK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GHOSTRANK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GHOSTRANK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GHOSTRANK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GHOSTRANK_REDIS_ADDR"`
	Password     string        `envconfig:"GHOSTRANK_REDIS_PASSWORD"`
	DB           int           `envconfig:"GHOSTRANK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GHOSTRANK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GHOSTRANK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GHOSTRANK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GHOSTRANK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GHOSTRANK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CommunityConfig points the tracker at one community on the platform.
type CommunityConfig struct {
	ID              string `envconfig:"GHOSTRANK_COMMUNITY_ID" required:"true"`
	InviteChannelID string `envconfig:"GHOSTRANK_INVITE_CHANNEL_ID" required:"true"`
}

// TrackingConfig tunes the fraud heuristic and the reversal window. Zero
// disables the respective check.
type TrackingConfig struct {
	MinAccountAgeDays int `envconfig:"GHOSTRANK_MIN_ACCOUNT_AGE_DAYS" default:"0"`
	MinStayHours      int `envconfig:"GHOSTRANK_MIN_STAY_HOURS" default:"0"`
}

// MinStay returns the reversal window as a duration, zero when disabled.
func (t TrackingConfig) MinStay() time.Duration {
	if t.MinStayHours <= 0 {
		return 0
	}
	return time.Duration(t.MinStayHours) * time.Hour
}

// RolesConfig maps each tier to the platform role that marks it.
type RolesConfig struct {
	BronzeID   string `envconfig:"GHOSTRANK_ROLE_BRONZE_ID" required:"true"`
	PrataID    string `envconfig:"GHOSTRANK_ROLE_PRATA_ID" required:"true"`
	OuroID     string `envconfig:"GHOSTRANK_ROLE_OURO_ID" required:"true"`
	PlatinaID  string `envconfig:"GHOSTRANK_ROLE_PLATINA_ID" required:"true"`
	DiamanteID string `envconfig:"GHOSTRANK_ROLE_DIAMANTE_ID" required:"true"`
}

// RoleIDFor returns the role marking the given tier, empty for NONE.
func (r RolesConfig) RoleIDFor(tier enums.Tier) string {
	switch tier {
	case enums.TierBronze:
		return r.BronzeID
	case enums.TierPrata:
		return r.PrataID
	case enums.TierOuro:
		return r.OuroID
	case enums.TierPlatina:
		return r.PlatinaID
	case enums.TierDiamante:
		return r.DiamanteID
	}
	return ""
}

// All returns every tier-marker role id, in ascending tier order.
func (r RolesConfig) All() []string {
	return []string{r.BronzeID, r.PrataID, r.OuroID, r.PlatinaID, r.DiamanteID}
}

type DigestConfig struct {
	Enabled  bool          `envconfig:"GHOSTRANK_DIGEST_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"GHOSTRANK_DIGEST_INTERVAL" default:"168h"`
	TopSize  int           `envconfig:"GHOSTRANK_DIGEST_TOP_SIZE" default:"10"`
}

type DashboardConfig struct {
	CORSOrigins []string `envconfig:"GHOSTRANK_DASHBOARD_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
