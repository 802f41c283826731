package configs

// Config holds all configuration for the pipeline binaries.
type Config struct {
	Log        LogConfig        `mapstructure:"log" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Preprocess PreprocessConfig `mapstructure:"preprocess" validate:"required"`
	Extraction ExtractionConfig `mapstructure:"extraction" validate:"required"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
	// Quiet suppresses progress output only; it never changes computed
	// values.
	Quiet bool `mapstructure:"quiet"`
}

// StorageConfig holds file storage configuration for the intermediate
// record streams and the feature output.
type StorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
	// AllowOverwrite permits replacing existing output files. The
	// default refuses and fails the run.
	AllowOverwrite bool `mapstructure:"allow_overwrite"`
}

// PreprocessConfig holds configuration for the preprocessing stage.
type PreprocessConfig struct {
	InputFile  string `mapstructure:"input_file" validate:"required"`
	RecordsKey string `mapstructure:"records_key" validate:"required"`
	StatsKey   string `mapstructure:"stats_key" validate:"required"`
}

// ExtractionConfig holds configuration for the feature-extraction stage.
// At least one of payload, time_window_secs and fixed_window_size must be
// enabled; that is validated at service construction.
type ExtractionConfig struct {
	RecordsKey  string `mapstructure:"records_key" validate:"required"`
	StatsKey    string `mapstructure:"stats_key" validate:"required"`
	FeaturesKey string `mapstructure:"features_key" validate:"required"`

	Payload         bool    `mapstructure:"payload"`
	TimeWindowSecs  float64 `mapstructure:"time_window_secs" validate:"min=0"`
	FixedWindowSize int     `mapstructure:"fixed_window_size" validate:"min=0"`

	Gzip bool `mapstructure:"gzip"`

	// Workers bounds the per-domain fan-out; 0 selects one per CPU.
	Workers int `mapstructure:"workers" validate:"min=0"`
	// InlineWriteThreshold is the domain query count at which a worker
	// writes rows to the sink directly; 0 selects the default.
	InlineWriteThreshold int `mapstructure:"inline_write_threshold" validate:"min=0"`
}
