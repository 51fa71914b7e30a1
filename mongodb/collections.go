package mongodb

const (
	// UsersCollection holds user accounts.
	UsersCollection = "users"
	// AuthStatesCollection holds transient OAuth round-trip state. Documents
	// expire through a TTL index.
	AuthStatesCollection = "auth_states"
)
