package app

import (
	"github.com/spf13/viper"
)

// ConfigureViper sets up viper with standard config file search paths.
// Config file: virtdock.toml
// Search paths (in order): /etc/virtdock, ~/.config/virtdock, current directory
func ConfigureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("virtdock")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/virtdock")
		v.AddConfigPath("$HOME/.config/virtdock")
		v.AddConfigPath(".")
	}
}
