package server

// Config is the HTTP server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string

	// EnablePprof mounts the net/http/pprof handlers under /debug/pprof/.
	EnablePprof bool
}
