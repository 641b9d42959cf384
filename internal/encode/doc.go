// Package encode writes sequences of RGB frames to video containers and image
// files.
//
// [Open] chooses an [Encoder] from the output path:
//
//   - .mp4, .mkv, .mov, .webm, .avi: [FFmpeg], raw frames piped to an ffmpeg process
//   - .gif: [GIF], frames quantized and written on Close
//   - a directory (no extension or trailing separator): [PNGSequence]
//
// Encoders are opened before the first frame and must be closed after the
// last one, including when rendering stops early. Output written before a
// failure is left on disk.
package encode
