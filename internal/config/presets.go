package config

import "sort"

var Presets = map[string]map[string]PatternConfig{
	"signal_mesh": {
		"calm":       {Speed: 0.3, Brightness: 0.5, LineWidth: 1.0, ColorScheme: "Default"},
		"datacenter": {Speed: 1.2, Brightness: 0.9, LineWidth: 1.5, ColorScheme: "Electric"},
		"blueprint":  {Speed: 0.5, Brightness: 0.7, LineWidth: 0.5, ColorScheme: "Arctic"},
	},
	"magnetic_field": {
		"drift":  {Speed: 0.2, Brightness: 0.6, LineWidth: 1.0, ColorScheme: "Arctic"},
		"storm":  {Speed: 2.0, Brightness: 1.0, LineWidth: 1.0, ColorScheme: "Electric"},
		"embers": {Speed: 0.7, Brightness: 0.8, LineWidth: 1.0, ColorScheme: "Fire"},
	},
	"heat_pulse": {
		"idle":     {Speed: 0.3, Brightness: 0.5, LineWidth: 1.0, ColorScheme: "Fire"},
		"overload": {Speed: 1.8, Brightness: 1.0, LineWidth: 2.0, ColorScheme: "Fire"},
		"coolant":  {Speed: 0.6, Brightness: 0.7, LineWidth: 1.0, ColorScheme: "Arctic"},
	},
	"stress_wave": {
		"ripple":  {Speed: 0.4, Brightness: 0.6, LineWidth: 1.0, ColorScheme: "Arctic"},
		"quake":   {Speed: 2.0, Brightness: 1.0, LineWidth: 3.0, ColorScheme: "Fire"},
		"scanner": {Speed: 1.0, Brightness: 0.8, LineWidth: 0.5, ColorScheme: "Electric"},
	},
	"neuro_spark": {
		"dream":   {Speed: 0.2, Brightness: 0.6, LineWidth: 1.0, ColorScheme: "Default"},
		"focus":   {Speed: 1.0, Brightness: 0.9, LineWidth: 2.0, ColorScheme: "Electric"},
		"seizure": {Speed: 2.0, Brightness: 1.0, LineWidth: 4.0, ColorScheme: "Fire"},
	},
}

func GetPreset(mode, preset string) (PatternConfig, bool) {
	modePresets, ok := Presets[mode]
	if !ok {
		return PatternConfig{}, false
	}
	pc, ok := modePresets[preset]
	return pc, ok
}

// ListPresets returns the preset names of mode in sorted order.
func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
