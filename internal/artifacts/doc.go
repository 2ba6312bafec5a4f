// Package artifacts renders the files furiosa-env leaves on disk: the example
// inference scripts, the compilation config, and the build plan consumed by
// the embedded artifact builder driver.
//
// Renderers are pure and deterministic. Writing the same artifact twice
// produces byte-identical files.
package artifacts
