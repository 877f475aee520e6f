package config

// DefaultExtensions lists the media extensions recognized when the config
// does not override them. Lowercase, with leading dot.
var DefaultExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg",
	".mp4", ".mp3", ".wav",
}

// DefaultAssetsDirectory is the name of the assets subdirectory created
// inside the target directory.
const DefaultAssetsDirectory = "assets"

const defaultWatchDebounceMS = 500

func applyDefaults(cfg *Config) {
	if cfg.Assets.Directory == "" {
		cfg.Assets.Directory = DefaultAssetsDirectory
	}
	if len(cfg.Assets.Extensions) == 0 {
		cfg.Assets.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Watch.DebounceMS <= 0 {
		cfg.Watch.DebounceMS = defaultWatchDebounceMS
	}
}
