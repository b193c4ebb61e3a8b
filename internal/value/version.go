package value

// FingerprintVersion identifies the canonical encoding version used by
// Fingerprint. Bump when the encoding changes in a way that would move an
// existing value to a new digest, so callers can detect a stored
// fingerprint computed under an older encoding.
const FingerprintVersion = "1"
