package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

var (
	ErrBatchSizeInvalid               = runtimeconfig.ErrBatchSizeInvalid
	ErrDeleteBatchSizeInvalid         = runtimeconfig.ErrDeleteBatchSizeInvalid
	ErrDefaultStatusInvalid           = runtimeconfig.ErrDefaultStatusInvalid
	ErrURLFormatInvalid               = runtimeconfig.ErrURLFormatInvalid
	ErrSitemapLimitInvalid            = runtimeconfig.ErrSitemapLimitInvalid
	ErrFetchTimeoutInvalid            = runtimeconfig.ErrFetchTimeoutInvalid
	ErrStorageDriverUnknown           = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired             = runtimeconfig.ErrStorageDSNRequired
	ErrCacheRequiresRelationalStorage = runtimeconfig.ErrCacheRequiresRelationalStorage
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	GenerationConfig = runtimeconfig.GenerationConfig
	ExportConfig     = runtimeconfig.ExportConfig
	FetchConfig      = runtimeconfig.FetchConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
