package logging

// Per-category convenience wrappers, mirroring the call-site shape used
// throughout the teacher's world/mangle packages (logging.WorldDebug(...)
// etc.): callers write logging.ClusterDebug("merged %d into %d", a, b)
// instead of logging.Get(CategoryCluster).Debug(...).

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

func Layer(format string, args ...interface{})      { Get(CategoryLayer).Info(format, args...) }
func LayerDebug(format string, args ...interface{}) { Get(CategoryLayer).Debug(format, args...) }
func LayerWarn(format string, args ...interface{})  { Get(CategoryLayer).Warn(format, args...) }

func Cluster(format string, args ...interface{})      { Get(CategoryCluster).Info(format, args...) }
func ClusterDebug(format string, args ...interface{}) { Get(CategoryCluster).Debug(format, args...) }
func ClusterWarn(format string, args ...interface{})  { Get(CategoryCluster).Warn(format, args...) }

func Metrics(format string, args ...interface{})      { Get(CategoryMetrics).Info(format, args...) }
func MetricsDebug(format string, args ...interface{}) { Get(CategoryMetrics).Debug(format, args...) }

func InterCluster(format string, args ...interface{})      { Get(CategoryInterCluster).Info(format, args...) }
func InterClusterDebug(format string, args ...interface{}) { Get(CategoryInterCluster).Debug(format, args...) }

func Consolidate(format string, args ...interface{})      { Get(CategoryConsolidate).Info(format, args...) }
func ConsolidateDebug(format string, args ...interface{}) { Get(CategoryConsolidate).Debug(format, args...) }
func ConsolidateWarn(format string, args ...interface{})  { Get(CategoryConsolidate).Warn(format, args...) }

func Naming(format string, args ...interface{})      { Get(CategoryNaming).Info(format, args...) }
func NamingDebug(format string, args ...interface{}) { Get(CategoryNaming).Debug(format, args...) }

func Viability(format string, args ...interface{})      { Get(CategoryViability).Info(format, args...) }
func ViabilityDebug(format string, args ...interface{}) { Get(CategoryViability).Debug(format, args...) }

func Recommend(format string, args ...interface{})      { Get(CategoryRecommend).Info(format, args...) }
func RecommendDebug(format string, args ...interface{}) { Get(CategoryRecommend).Debug(format, args...) }
func RecommendWarn(format string, args ...interface{})  { Get(CategoryRecommend).Warn(format, args...) }
func RecommendError(format string, args ...interface{}) { Get(CategoryRecommend).Error(format, args...) }
