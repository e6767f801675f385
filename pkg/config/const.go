package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "GHOSTRANK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Canonical environment variable names, used by tests and error messages.
const (
	EnvAppEnv        = "GHOSTRANK_APP_ENV"
	EnvPort          = "GHOSTRANK_APP_PORT"
	EnvDBDSN         = "GHOSTRANK_DB_DSN"
	EnvDBHost        = "GHOSTRANK_DB_HOST"
	EnvDBUser        = "GHOSTRANK_DB_USER"
	EnvDBName        = "GHOSTRANK_DB_NAME"
	EnvRedisURL      = "GHOSTRANK_REDIS_URL"
	EnvCommunityID   = "GHOSTRANK_COMMUNITY_ID"
	EnvInviteChannel = "GHOSTRANK_INVITE_CHANNEL_ID"
	EnvRoleBronze    = "GHOSTRANK_ROLE_BRONZE_ID"
	EnvRolePrata     = "GHOSTRANK_ROLE_PRATA_ID"
	EnvRoleOuro      = "GHOSTRANK_ROLE_OURO_ID"
	EnvRolePlatina   = "GHOSTRANK_ROLE_PLATINA_ID"
	EnvRoleDiamante  = "GHOSTRANK_ROLE_DIAMANTE_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
