package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/spf13/viper"

	"github.com/aperturefits/gofits/internal/s3source"
)

// openSource opens a local path or an s3://bucket/key URL as a seekable
// byte source, the way the teacher's demo/extract.go opened a local
// path or an http(s) URL.
func openSource(location string) (io.ReadSeeker, func() error, error) {
	if strings.HasPrefix(location, "s3://") {
		return openS3(location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", location, err)
	}
	return f, f.Close, nil
}

func openS3(location string) (io.ReadSeeker, func() error, error) {
	rest := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid s3 location %q, expected s3://bucket/key", location)
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(viper.GetString("region"))})
	if err != nil {
		return nil, nil, fmt.Errorf("create aws session: %w", err)
	}
	client := s3.New(sess)
	src, err := s3source.Open(client, parts[0], parts[1])
	if err != nil {
		return nil, nil, err
	}
	return src, func() error { return nil }, nil
}
