// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"sort"
	"strings"

	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/constant"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/filesystem"
	"github.com/opendigitaleducation/edifice-mobile-framework-sub001/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvKeyReplacer turns configuration keys into environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers the defaults, binds the EDIFICE_ variables and reads edifice.toml when present.
func Setup() error {
	viper.SetConfigName(constant.Edifice)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Edifice)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Unknown lists the keys set in the config file that no field declares, sorted.
// They usually are typos or settings of an older version.
func Unknown() []string {
	unknown := lo.Filter(viper.AllKeys(), func(k string, _ int) bool {
		_, ok := Default[k]
		return !ok
	})
	sort.Strings(unknown)
	return unknown
}
