// Package speech synthesizes and plays the assistant's spoken output.
// A single worker goroutine drains a FIFO queue, so utterances never
// overlap and are spoken in the order they were enqueued.
package speech

// Azure Speech REST defaults.
const (
	DefaultVoice       = "en-US-JennyNeural"
	DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

	// PCM parameters implied by DefaultAudioFormat.
	SampleRate   = 24000
	ChannelCount = 1
	BytesPerSample = 2
)

// Environment variables for the Azure Speech credentials.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
)
