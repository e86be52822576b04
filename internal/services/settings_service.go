package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutrilife-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidSetting  = errors.New("invalid setting")
)

const (
	SettingAppName          = "app_name"
	SettingDefaultDailyGoal = "default_daily_goal"
	SettingMaintenanceMode  = "maintenance_mode"
	SettingTips             = "tips"
	SettingPlans            = "plans"
)

var settingTypes = map[string]bool{"string": true, "bool": true, "int": true, "json": true}

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// SeedDefaults inserts the default keys that are missing. Existing values are
// left alone so admin edits survive restarts.
func (s *SettingsService) SeedDefaults(appName string, dailyGoal int) error {
	tips, err := json.Marshal(defaultTips)
	if err != nil {
		return err
	}
	plans, err := json.Marshal(defaultPlans)
	if err != nil {
		return err
	}

	defaults := []models.Setting{
		{Key: SettingAppName, Value: appName, Type: "string"},
		{Key: SettingDefaultDailyGoal, Value: strconv.Itoa(dailyGoal), Type: "int"},
		{Key: SettingMaintenanceMode, Value: "false", Type: "bool"},
		{Key: SettingTips, Value: string(tips), Type: "json"},
		{Key: SettingPlans, Value: string(plans), Type: "json"},
	}

	for i := range defaults {
		var existing models.Setting
		err := s.db.Where("key = ?", defaults[i].Key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&defaults[i]).Error; err != nil {
				return fmt.Errorf("seed %s: %w", defaults[i].Key, err)
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// All returns every setting decoded according to its type.
func (s *SettingsService) All() (map[string]interface{}, error) {
	var settings []models.Setting
	if err := s.db.Order("key").Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]interface{}, len(settings))
	for _, st := range settings {
		result[st.Key] = decodeSetting(st)
	}
	return result, nil
}

// Raw returns the stored string value of key.
func (s *SettingsService) Raw(key string) (string, error) {
	var st models.Setting
	if err := s.db.Where("key = ?", key).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return st.Value, nil
}

// Set validates value against typ and upserts the key.
func (s *SettingsService) Set(key, value, typ string) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if typ == "" {
		typ = "string"
	}
	if key == "" || !settingTypes[typ] {
		return nil, ErrInvalidSetting
	}
	if err := validateSetting(value, typ); err != nil {
		return nil, err
	}

	var st models.Setting
	err := s.db.Where("key = ?", key).First(&st).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		st = models.Setting{Key: key, Value: value, Type: typ}
		if err := s.db.Create(&st).Error; err != nil {
			return nil, fmt.Errorf("failed to create setting: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		st.Value = value
		st.Type = typ
		if err := s.db.Save(&st).Error; err != nil {
			return nil, fmt.Errorf("failed to update setting: %w", err)
		}
	}
	return &st, nil
}

func (s *SettingsService) Delete(key string) error {
	result := s.db.Where("key = ?", key).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}

// DefaultDailyGoal returns the goal used for users without a profile, or
// fallback when the setting is missing or not a positive integer.
func (s *SettingsService) DefaultDailyGoal(fallback int) int {
	raw, err := s.Raw(SettingDefaultDailyGoal)
	if err != nil {
		return fallback
	}
	goal, err := strconv.Atoi(raw)
	if err != nil || goal <= 0 {
		return fallback
	}
	return goal
}

func (s *SettingsService) MaintenanceMode() bool {
	raw, err := s.Raw(SettingMaintenanceMode)
	if err != nil {
		return false
	}
	on, _ := strconv.ParseBool(raw)
	return on
}

func (s *SettingsService) Tips() ([]Tip, error) {
	var tips []Tip
	if err := s.decodeJSON(SettingTips, &tips); err != nil {
		return defaultTips, err
	}
	return tips, nil
}

func (s *SettingsService) Plans() ([]Plan, error) {
	var plans []Plan
	if err := s.decodeJSON(SettingPlans, &plans); err != nil {
		return defaultPlans, err
	}
	return plans, nil
}

func (s *SettingsService) decodeJSON(key string, dst interface{}) error {
	raw, err := s.Raw(key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

func validateSetting(value, typ string) error {
	var err error
	switch typ {
	case "bool":
		_, err = strconv.ParseBool(value)
	case "int":
		_, err = strconv.Atoi(value)
	case "json":
		if !json.Valid([]byte(value)) {
			err = errors.New("malformed json")
		}
	}
	if err != nil {
		return fmt.Errorf("%w: value is not a valid %s", ErrInvalidSetting, typ)
	}
	return nil
}

func decodeSetting(st models.Setting) interface{} {
	switch st.Type {
	case "bool":
		v, _ := strconv.ParseBool(st.Value)
		return v
	case "int":
		v, _ := strconv.Atoi(st.Value)
		return v
	case "json":
		var v interface{}
		if err := json.Unmarshal([]byte(st.Value), &v); err != nil {
			return st.Value
		}
		return v
	default:
		return st.Value
	}
}
