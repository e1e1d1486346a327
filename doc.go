// Package ballast is a typed configuration store backed by .env files.
//
// Quick Start:
//
//	store := ballast.MustOpen(".env")
//
//	port := store.Int("PORT", 8080)
//	debug := store.Bool("DEBUG", false)
//	store.Set("CACHE_TTL", "300", ballast.Persist())
//
// Values are coerced on read: "42" becomes an int, "true"/"enable" a bool,
// "null" the null variant, "[a,b,c]" a list. Writes mirror into the process
// environment without clobbering externally set variables, and a ';' key
// prefix disables an entry. Bind populates structs from the store via `env`
// tags; Watch reloads on file changes; Export renders env, JSON, YAML, or
// TOML.
//
// See store.go and example usage under examples/ for details.
package ballast
