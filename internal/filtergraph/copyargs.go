package filtergraph

// StreamCopyArgs builds the argument vector for a decode-free segment
// extraction: seek, bounded read, stream copy, streaming-friendly layout.
// Cut points land on keyframes, which is the accepted trade-off of the fast
// export method.
func StreamCopyArgs(ffmpegPath, input string, start, duration float64, output string) []string {
	return []string{
		ffmpegPath,
		"-y",
		"-ss", fnum(start),
		"-i", input,
		"-t", fnum(duration),
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}

// ConcatArgs builds the argument vector for the concat-demuxer pass that
// stitches already-compatible files listed in manifest into one output.
// Concatenation is always a stream copy; the expensive work happened when
// the listed files were produced.
func ConcatArgs(ffmpegPath, manifest, output string) []string {
	return []string{
		ffmpegPath,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}
