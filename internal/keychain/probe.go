package keychain

// probeKey is never written; reading it only tells whether the store answers.
const probeKey = ".spectrus-desktop.probe"

// Probe checks that the backend responds. A missing probe entry is healthy;
// any other error means the store is unavailable right now. Callers treat
// the result as advisory: an unavailable store fails individual calls, it
// does not stop the process.
func Probe(store Store) error {
	_, _, err := New(store).Get(probeKey)
	return err
}
