// Package s3 stores large file content in an S3-compatible bucket.
//
// Remote satisfies lfs.Remote, so a Store can keep binaries in MinIO or S3
// instead of a Git LFS server. Objects are content addressed beneath the
// owning repository:
//
//	<prefix>/<owner>/<name>/<oid[0:2]>/<oid[2:4]>/<oid>
//
// Resolve hands out presigned GET URLs that expire after Config.Expiry.
package s3
