package uploader

import "math/rand"

// FileIDLength is the length of a client-generated transfer identifier.
const FileIDLength = 10

const fileIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewFileID returns an identifier of FileIDLength characters drawn uniformly
// from the 62-symbol alphanumeric alphabet. The id ties together all chunk
// messages of one transfer. The client never learns about server-side id
// collisions, so none are handled here.
func NewFileID() string {
	b := make([]byte, FileIDLength)
	for i := range b {
		b[i] = fileIDAlphabet[rand.Intn(len(fileIDAlphabet))]
	}
	return string(b)
}
