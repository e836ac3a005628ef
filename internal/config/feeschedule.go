package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FeeSchedule is the fixed renewal fee schedule in integer cents. The
// government fees track the USPTO per-class amounts; the base fee is the
// firm's own service charge for preparing a Section 8 filing.
type FeeSchedule struct {
	BaseServiceFeeCents int64 `mapstructure:"baseServiceFeeCents"`
	RushFeeCents        int64 `mapstructure:"rushFeeCents"`
	Section8FeeCents    int64 `mapstructure:"section8FeeCents"`
	GracePeriodFeeCents int64 `mapstructure:"gracePeriodFeeCents"`
	Section15FeeCents   int64 `mapstructure:"section15FeeCents"`
	Section9FeeCents    int64 `mapstructure:"section9FeeCents"`
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		BaseServiceFeeCents: 20000,
		RushFeeCents:        50000,
		Section8FeeCents:    22500,
		GracePeriodFeeCents: 10000,
		Section15FeeCents:   20000,
		Section9FeeCents:    22500,
	}
}

// FeeScheduleHolder serves the current fee schedule and hot-reloads it when
// the underlying file changes. Invalid updates are ignored, keeping the last
// known-good schedule in place.
type FeeScheduleHolder struct {
	current atomic.Value // holds FeeSchedule
}

func NewFeeScheduleHolder() (*FeeScheduleHolder, error) {
	v := viper.New()

	v.SetConfigName("fees")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/lexbill/config") // Volume-mounted config
	v.AddConfigPath("/etc/lexbill")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("LEXBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultFeeSchedule()
		v.SetDefault("fees.baseServiceFeeCents", defaults.BaseServiceFeeCents)
		v.SetDefault("fees.rushFeeCents", defaults.RushFeeCents)
		v.SetDefault("fees.section8FeeCents", defaults.Section8FeeCents)
		v.SetDefault("fees.gracePeriodFeeCents", defaults.GracePeriodFeeCents)
		v.SetDefault("fees.section15FeeCents", defaults.Section15FeeCents)
		v.SetDefault("fees.section9FeeCents", defaults.Section9FeeCents)
	}

	var schedule FeeSchedule
	if err := v.UnmarshalKey("fees", &schedule); err != nil {
		return nil, err
	}
	if err := validateFeeSchedule(schedule); err != nil {
		return nil, err
	}

	holder := &FeeScheduleHolder{}
	holder.current.Store(schedule)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FeeSchedule
		if err := v.UnmarshalKey("fees", &updated); err != nil {
			log.Printf("[fee-schedule] reload failed: %v", err)
			return
		}
		if err := validateFeeSchedule(updated); err != nil {
			log.Printf("[fee-schedule] invalid schedule ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[fee-schedule] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticFeeScheduleHolder pins a schedule without file watching.
func NewStaticFeeScheduleHolder(s FeeSchedule) *FeeScheduleHolder {
	holder := &FeeScheduleHolder{}
	holder.current.Store(s)
	return holder
}

func (h *FeeScheduleHolder) Get() FeeSchedule {
	return h.current.Load().(FeeSchedule)
}

func validateFeeSchedule(s FeeSchedule) error {
	if s.BaseServiceFeeCents <= 0 {
		return errors.New("fees.baseServiceFeeCents must be positive")
	}
	if s.RushFeeCents <= 0 {
		return errors.New("fees.rushFeeCents must be positive")
	}
	if s.Section8FeeCents <= 0 {
		return errors.New("fees.section8FeeCents must be positive")
	}
	if s.GracePeriodFeeCents <= 0 {
		return errors.New("fees.gracePeriodFeeCents must be positive")
	}
	if s.Section15FeeCents <= 0 {
		return errors.New("fees.section15FeeCents must be positive")
	}
	if s.Section9FeeCents <= 0 {
		return errors.New("fees.section9FeeCents must be positive")
	}
	return nil
}
