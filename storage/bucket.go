package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go-farmlink/models"
)

// SoilTestsBucket 土壤检测文件所在的桶
const SoilTestsBucket = "soil-tests"

// Bucket 文件存储
type Bucket interface {
	Name() string
	// Upload 写入新对象，已存在时返回 models.ErrConflict
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	PublicURL(objectPath string) string
	Open(objectPath string) (io.ReadCloser, error)
	Remove(ctx context.Context, objectPath string) error
}

// DiskBucket 以本地目录保存对象
type DiskBucket struct {
	name    string
	root    string
	baseURL string
}

// NewDiskBucket 在 dir/name 下创建桶
func NewDiskBucket(dir, name, publicBaseURL string) (*DiskBucket, error) {
	root := filepath.Join(dir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	return &DiskBucket{
		name:    name,
		root:    root,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (b *DiskBucket) Name() string {
	return b.name
}

// resolve 校验对象路径并转换为磁盘路径，拒绝越出桶目录
func (b *DiskBucket) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + strings.TrimSpace(objectPath))
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", models.Invalid("path", "invalid object path")
	}
	return filepath.Join(b.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (b *DiskBucket) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	target, err := b.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return models.ErrConflict
	}
	if err != nil {
		return err
	}
	if _, err = io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}
	return f.Close()
}

func (b *DiskBucket) PublicURL(objectPath string) string {
	return b.baseURL + "/" + b.name + "/" + strings.TrimPrefix(objectPath, "/")
}

func (b *DiskBucket) Open(objectPath string) (io.ReadCloser, error) {
	target, err := b.resolve(objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, models.ErrNotFound
	}
	return f, err
}

func (b *DiskBucket) Remove(ctx context.Context, objectPath string) error {
	target, err := b.resolve(objectPath)
	if err != nil {
		return err
	}
	err = os.Remove(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
