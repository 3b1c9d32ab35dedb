// Package audio plays the expiry chime. It uses the beep library to decode
// WAV, OGG and MP3 files, with one configurable sound per session kind.
package audio
