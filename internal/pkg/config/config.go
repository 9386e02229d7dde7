package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type (
	Tasks struct {
		OrderIntakeInterval   time.Duration
		OfferDispatchInterval time.Duration
		MissedPickupInterval  time.Duration
		DailyRolloverInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware  rate limiter capacity
		RateLimiterBurst int           // middlewarerate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Matching struct {
		CandidateLimit     int
		MaxDistanceMeters  float64
		StaggerInterval    time.Duration
		DeliveryOfferDelay time.Duration
		ResponseGrace      time.Duration
		OfferTryCap        int
		OfferSendParallel  int
		SlotLeadTime       time.Duration
		PickupGrace        time.Duration
	}

	Kafka struct {
		PortHealthcheck   string
		Brokers           string
		ResponseTopic     string
		NotificationTopic string
		ConsumerGroup     string
		Sarama            Sarama
		Handlers          KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OfferResponse OfferResponse
	}

	OfferResponse struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks    Tasks
		Server   HTTPServer
		Database Database
		Matching Matching
		Kafka    Kafka
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	intakeInterval, err := osGetEnvDuration("BACKGROUND_ORDER_INTAKE_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dispatchInterval, err := osGetEnvDuration("BACKGROUND_OFFER_DISPATCH_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	missedPickupInterval, err := osGetEnvDuration("BACKGROUND_MISSED_PICKUP_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rolloverInterval, err := osGetEnvDuration("BACKGROUND_DAILY_ROLLOVER_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	candidateLimit, err := osGetInt("MATCHING_CANDIDATE_LIMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	maxDistance, err := osGetFloat("MATCHING_MAX_DISTANCE_METERS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	staggerInterval, err := osGetEnvDuration("MATCHING_STAGGER_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	deliveryOfferDelay, err := osGetEnvDuration("MATCHING_DELIVERY_OFFER_DELAY")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	responseGrace, err := osGetEnvDuration("MATCHING_RESPONSE_GRACE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offerTryCap, err := osGetInt("MATCHING_OFFER_TRY_CAP")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offerSendParallel, err := osGetInt("MATCHING_OFFER_SEND_PARALLEL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	slotLeadTime, err := osGetEnvDuration("MATCHING_SLOT_LEAD_TIME")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pickupGrace, err := osGetEnvDuration("MATCHING_PICKUP_GRACE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offerResponseTimeout, err := osGetEnvDuration("KAFKA_HANDLER_OFFER_RESPONSE_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Tasks: Tasks{
			OrderIntakeInterval:   intakeInterval,
			OfferDispatchInterval: dispatchInterval,
			MissedPickupInterval:  missedPickupInterval,
			DailyRolloverInterval: rolloverInterval,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Matching: Matching{
			CandidateLimit:     candidateLimit,
			MaxDistanceMeters:  maxDistance,
			StaggerInterval:    staggerInterval,
			DeliveryOfferDelay: deliveryOfferDelay,
			ResponseGrace:      responseGrace,
			OfferTryCap:        offerTryCap,
			OfferSendParallel:  offerSendParallel,
			SlotLeadTime:       slotLeadTime,
			PickupGrace:        pickupGrace,
		},
		Kafka: Kafka{
			Brokers:           os.Getenv("KAFKA_BROKERS"),
			ResponseTopic:     os.Getenv("KAFKA_RESPONSE_TOPIC"),
			NotificationTopic: os.Getenv("KAFKA_NOTIFICATION_TOPIC"),
			ConsumerGroup:     os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck:   os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OfferResponse: OfferResponse{
					ProcessTimeout: offerResponseTimeout,
				},
			},
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Tasks.OrderIntakeInterval == time.Duration(0) {
		return errors.New("BACKGROUND_ORDER_INTAKE_INTERVAL is required")
	}
	if cfg.Tasks.OfferDispatchInterval == time.Duration(0) {
		return errors.New("BACKGROUND_OFFER_DISPATCH_INTERVAL is required")
	}
	if cfg.Tasks.MissedPickupInterval == time.Duration(0) {
		return errors.New("BACKGROUND_MISSED_PICKUP_INTERVAL is required")
	}
	if cfg.Tasks.DailyRolloverInterval == time.Duration(0) {
		return errors.New("BACKGROUND_DAILY_ROLLOVER_INTERVAL is required")
	}

	if cfg.Matching.CandidateLimit == 0 {
		return errors.New("MATCHING_CANDIDATE_LIMIT is required")
	}
	if cfg.Matching.MaxDistanceMeters == 0 {
		return errors.New("MATCHING_MAX_DISTANCE_METERS is required")
	}
	if cfg.Matching.StaggerInterval == time.Duration(0) {
		return errors.New("MATCHING_STAGGER_INTERVAL is required")
	}
	if cfg.Matching.DeliveryOfferDelay == time.Duration(0) {
		return errors.New("MATCHING_DELIVERY_OFFER_DELAY is required")
	}
	if cfg.Matching.ResponseGrace == time.Duration(0) {
		return errors.New("MATCHING_RESPONSE_GRACE is required")
	}
	if cfg.Matching.OfferTryCap == 0 {
		return errors.New("MATCHING_OFFER_TRY_CAP is required")
	}
	if cfg.Matching.OfferSendParallel == 0 {
		return errors.New("MATCHING_OFFER_SEND_PARALLEL is required")
	}
	if cfg.Matching.SlotLeadTime == time.Duration(0) {
		return errors.New("MATCHING_SLOT_LEAD_TIME is required")
	}
	if cfg.Matching.PickupGrace == time.Duration(0) {
		return errors.New("MATCHING_PICKUP_GRACE is required")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.ResponseTopic == "" {
		return errors.New("KAFKA_RESPONSE_TOPIC is required")
	}
	if cfg.Kafka.NotificationTopic == "" {
		return errors.New("KAFKA_NOTIFICATION_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}

	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Handlers.OfferResponse.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_OFFER_RESPONSE_PROCESS_TIMEOUT is required")
	}

	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
