package config

import "time"

const (
	DefaultURL       = "http://skillhouse.gentv.com"
	DefaultElementID = "__NEXT_DATA__"
	DefaultKeyPath   = "props.pageProps.media.views"
	DefaultUserAgent = "vtrack/1.0"
	DefaultTimeout   = 10 * time.Second

	DefaultPeriod  = 10 * time.Second
	DefaultRetries = 0
	DefaultBackoff = time.Duration(0)

	DefaultWindow   = 100
	DefaultMaxLag   = 360
	DefaultNFFT     = 120
	DefaultNOverlap = 110
	DefaultRateMin  = 0.0
	DefaultRateMax  = 30.0

	DefaultRefresh     = 20 * time.Second
	DefaultAddr        = ":8080"
	DefaultGraphFormat = "all"
	DefaultLogLevel    = "info"

	EnvPrefix = "VTRACK"
)
