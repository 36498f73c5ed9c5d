package store

// Persisted state keys. Each key maps to one whole-field JSON value;
// reads and writes always round-trip the entire field.
const (
	KeyPostHistory    = "postHistory"
	KeyLastPostAt     = "lastPostAt"
	KeyDailyPostCount = "dailyPostCount"
	KeyDailyPostDate  = "dailyPostDate"
	KeyRateLimit      = "rateLimit"
)

// Store is the durable key-value persistence contract the engine runs on.
// Get unmarshals the value for key into dest and reports whether the key
// exists. Set must be durable before it returns.
//
// Writes to a single key are atomic, but read-modify-write sequences across
// keys are not; the engine assumes a single-writer process (see DESIGN.md).
type Store interface {
	Get(key string, dest any) (bool, error)
	Set(key string, value any) error
}
