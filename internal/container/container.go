package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/civica-app/civica-backend/config"
	"github.com/civica-app/civica-backend/internal/infrastructure/regula"
	"github.com/civica-app/civica-backend/pkg/fieldcrypt"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	sessions    *helpers.SessionStore
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager
	fields     fieldcrypt.Decoder

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
	regulaAPI *regula.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

// SetRedis also builds the session store on top of the client.
func SetRedis(r *redis.Client) {
	redisClient = r
	sessions = helpers.NewSessionStore(r)
}

func GetRedis() *redis.Client            { return redisClient }
func GetSessions() *helpers.SessionStore { return sessions }
func SetFields(d fieldcrypt.Decoder)     { fields = d }

func GetFields() fieldcrypt.Decoder {
	if fields != nil {
		return fields
	}
	return fieldcrypt.Plain{}
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetRegula(c *regula.Client)              { regulaAPI = c }
func GetRegula() *regula.Client               { return regulaAPI }
