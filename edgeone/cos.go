package edgeone

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// uploadArchive puts the ZIP into the staging bucket under the temp token's
// target path over the S3-compatible COS API and returns the object key.
func (d *Deployer) uploadArchive(ctx context.Context, token *CosTempToken, filename string, archive io.Reader, size int64) (string, error) {
	endpoint := d.COSEndpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("cos.%s.myqcloud.com", token.Region)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			token.Credentials.TmpSecretID,
			token.Credentials.TmpSecretKey,
			token.Credentials.Token,
		),
		Secure: !d.COSInsecure,
		Region: token.Region,
	})
	if err != nil {
		return "", err
	}

	key := strings.TrimSuffix(token.TargetPath, "/") + "/" + filename

	if _, err := client.PutObject(ctx, token.Bucket, key, archive, size, minio.PutObjectOptions{
		ContentType: "application/zip",
	}); err != nil {
		return "", err
	}

	return key, nil
}
