package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound   = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing = errors.New("config file is missing version field")
	ErrConfigVersionOld     = errors.New("config file version mismatch")
)

// CurrentVersion of the config file.
const CurrentVersion = 1

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version      int          `koanf:"version"`
	Debug        Debug        `koanf:"debug"`
	Discord      Discord      `koanf:"discord"`
	PostgreSQL   PostgreSQL   `koanf:"postgresql"`
	Roblox       Roblox       `koanf:"roblox"`
	Webhook      Webhook      `koanf:"webhook"`
	Requirements Requirements `koanf:"requirements"`
	Retry        Retry        `koanf:"retry"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// LogLevel sets the minimum logging level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
}

// Discord contains bot token, guild and the channel/role wiring.
type Discord struct {
	// Bot token.
	Token string `koanf:"token"`
	// Guild the department lives in.
	GuildID uint64 `koanf:"guild_id"`
	// Channel for weekly reports and announcements.
	AnnouncementChannelID uint64 `koanf:"announcement_channel_id"`
	// Channel for task submission embeds.
	TaskLogChannelID uint64 `koanf:"task_log_channel_id"`
	// Channel for operational/audit embeds.
	CommandLogChannelID uint64 `koanf:"command_log_channel_id"`
	// Channel for session join/leave embeds. Falls back to the command log channel.
	ActivityLogChannelID uint64 `koanf:"activity_log_channel_id"`
	// Channel for orientation reminders.
	OrientationAlertChannelID uint64 `koanf:"orientation_alert_channel_id"`
	// Role whose members form the weekly evaluation roster.
	DepartmentRoleID uint64 `koanf:"department_role_id"`
	// Role that opens an orientation window when granted.
	TraineeRoleID uint64 `koanf:"trainee_role_id"`
	// Role allowed to run management commands.
	ManagementRoleID uint64 `koanf:"management_role_id"`
	// Role allowed to run /announce.
	AnnouncementRoleID uint64 `koanf:"announcement_role_id"`
	// Role allowed to run /rank.
	RankManagerRoleID uint64 `koanf:"rank_manager_role_id"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"db_name"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"`
	MaxIdleTime  int    `koanf:"max_idle_time"`
}

// Roblox contains the group service endpoints and shared secrets.
// Empty ServiceBase or Secret leaves the gateway unconfigured; every call
// then short-circuits to a not-configured outcome.
type Roblox struct {
	// Base URL of the group service (/ranks, /set-rank, /remove).
	ServiceBase string `koanf:"service_base"`
	// Shared secret sent as X-Secret-Key.
	Secret string `koanf:"secret"`
	// Optional group ID forwarded with removal and rank calls.
	GroupID uint64 `koanf:"group_id"`
	// Request timeout in milliseconds for username lookups.
	LookupTimeout int `koanf:"lookup_timeout"`
}

// Webhook contains the session event receiver configuration.
type Webhook struct {
	// Listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// Shared secret expected in X-Secret-Key.
	Secret string `koanf:"secret"`
}

// Requirements contains the weekly quota thresholds.
type Requirements struct {
	// Minimum tasks completed per week.
	WeeklyTasks int `koanf:"weekly_tasks"`
	// Minimum on-site minutes per week.
	WeeklyMinutes int `koanf:"weekly_minutes"`
}

// Retry contains the bounded retry policy for outbound gateway calls.
type Retry struct {
	// Maximum attempts per call.
	MaxAttempts int `koanf:"max_attempts"`
	// Fixed delay between attempts in milliseconds.
	Delay int `koanf:"delay"`
	// Per-attempt timeout in milliseconds.
	Timeout int `koanf:"timeout"`
}

// LoadConfig loads the configuration from the first config.toml found in the
// search paths and returns it along with the directory it was loaded from.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	// Try multiple config paths in order of precedence
	configPaths := []string{".sentinel", "/etc/sentinel", "/app/config", "config", "."}

	var (
		usedDir    string
		configFile string
	)

	for _, dir := range configPaths {
		path := dir + "/config.toml"
		if _, err := os.Stat(path); err == nil {
			usedDir = dir
			configFile = path

			break
		}
	}

	if configFile == "" {
		return nil, "", ErrConfigFileNotFound
	}

	if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
		return nil, "", fmt.Errorf("failed to load config file %s: %w", configFile, err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := checkVersion(&config); err != nil {
		return nil, "", err
	}

	applyDefaults(&config)

	return &config, usedDir, nil
}

// checkVersion verifies the config file is current.
func checkVersion(config *Config) error {
	if config.Version == 0 {
		return ErrConfigVersionMissing
	}

	if config.Version != CurrentVersion {
		return fmt.Errorf("%w: expected version %d, got %d (see config/config.toml in the repository)",
			ErrConfigVersionOld, CurrentVersion, config.Version)
	}

	return nil
}

// applyDefaults fills in values that may be omitted from the config file.
func applyDefaults(config *Config) {
	if config.Requirements.WeeklyTasks == 0 {
		config.Requirements.WeeklyTasks = 3
	}

	if config.Requirements.WeeklyMinutes == 0 {
		config.Requirements.WeeklyMinutes = 45
	}

	if config.Retry.MaxAttempts == 0 {
		config.Retry.MaxAttempts = 3
	}

	if config.Retry.Delay == 0 {
		config.Retry.Delay = 800
	}

	if config.Retry.Timeout == 0 {
		config.Retry.Timeout = 20000
	}

	if config.Roblox.LookupTimeout == 0 {
		config.Roblox.LookupTimeout = 10000
	}

	if config.Webhook.Addr == "" {
		config.Webhook.Addr = ":8080"
	}
}
