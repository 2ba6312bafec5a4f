// Package s3 uploads compiled artifacts to S3-compatible object storage.
//
// The client works against AWS S3 and self-hosted or third-party
// S3-compatible endpoints. With a custom endpoint, path-style addressing is
// used since most compatible services do not serve virtual-hosted buckets.
package s3
