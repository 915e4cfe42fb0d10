package blobio_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/attilauslu/oligocraft/internal/ent/blob"
	"github.com/attilauslu/oligocraft/internal/io/blobio"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type object struct {
	data        []byte
	contentType string
	meta        map[string]string
}

type fakeS3 struct {
	objects map[string]object
}

func (f *fakeS3) PutObject(
	_ context.Context,
	in *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	bs, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = object{
		data: bs, contentType: aws.ToString(in.ContentType), meta: in.Metadata,
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(
	_ context.Context,
	in *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	o, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(o.data)),
		ContentType:   aws.String(o.contentType),
		ContentLength: aws.Int64(int64(len(o.data))),
		Metadata:      o.meta,
	}, nil
}

func (f *fakeS3) DeleteObject(
	_ context.Context,
	in *s3.DeleteObjectInput,
	_ ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func roundTrip(st blob.Store) {
	ctx := context.Background()
	info, err := st.Put(ctx, blob.Info{Key: "blob/1", Name: "genome.csv"},
		strings.NewReader("benchling_name,selection_name\na,b\n"))
	Expect(err).ToNot(HaveOccurred())
	Expect(info.ContentType).To(HavePrefix("text/"))
	Expect(info.Size).To(Equal(int64(34)))

	got, r, err := st.Get(ctx, "blob/1")
	Expect(err).ToNot(HaveOccurred())
	bs, err := io.ReadAll(r)
	Expect(err).ToNot(HaveOccurred())
	Expect(r.Close()).To(Succeed())
	Expect(string(bs)).To(HavePrefix("benchling_name"))
	Expect(got.Name).To(Equal("genome.csv"))
	Expect(got.ContentType).To(Equal(info.ContentType))

	Expect(st.Delete(ctx, "blob/1")).To(Succeed())
	_, _, err = st.Get(ctx, "blob/1")
	Expect(err).To(HaveOccurred())
}

var _ = Describe("Blobio", func() {
	Describe("fs", func() {
		It("saves, reads and deletes blobs", func() {
			dir, err := os.MkdirTemp("", "oligocraft-blob")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			st, err := blobio.New(context.Background(), config.Blob{Driver: "fs", Dir: dir})
			Expect(err).ToNot(HaveOccurred())
			roundTrip(st)
		})

		It("keeps a given content type", func() {
			dir, err := os.MkdirTemp("", "oligocraft-blob")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			st, err := blobio.NewFS(dir)
			Expect(err).ToNot(HaveOccurred())
			info, err := st.Put(context.Background(),
				blob.Info{Key: "x", ContentType: "text/csv"}, strings.NewReader("a,b\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(info.ContentType).To(Equal("text/csv"))
		})

		It("rejects keys outside the root", func() {
			dir, err := os.MkdirTemp("", "oligocraft-blob")
			Expect(err).ToNot(HaveOccurred())
			defer os.RemoveAll(dir)

			st, err := blobio.NewFS(dir)
			Expect(err).ToNot(HaveOccurred())
			_, err = st.Put(context.Background(), blob.Info{Key: "../x"}, strings.NewReader("a"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("s3", func() {
		It("saves, reads and deletes objects", func() {
			st := blobio.NewS3WithClient(&fakeS3{objects: map[string]object{}}, "bucket")
			roundTrip(st)
		})
	})

	It("rejects unknown drivers", func() {
		_, err := blobio.New(context.Background(), config.Blob{Driver: "ftp"})
		Expect(err).To(HaveOccurred())
	})
})
