package cryptox

import "crypto/rand"

// readRand fills b from the system CSPRNG. A test seam so salt-generation
// failure paths can be exercised.
var readRand = func(b []byte) error {
	_, err := rand.Read(b)
	return err
}
