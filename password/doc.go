// Package password provides argon2id hashing and verification in PHC string
// format. Hashes are self-describing, so verification works across parameter
// upgrades without a schema change.
package password
