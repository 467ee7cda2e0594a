// Package storage 提供录音对象存储访问（容器/目录/文件与签名链接）
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrInvalidContainerName 容器名不符合命名规则
var ErrInvalidContainerName = errors.New("invalid container name")

// ErrContainerNotFound 容器不存在
var ErrContainerNotFound = errors.New("container not found")

// 容器名：3-63 位小写字母数字或连字符，首尾必须是字母数字
var containerNamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,61})[a-z0-9]$`)

// 签名链接默认有效期
const DefaultSignedURLExpiry = time.Hour

// Config 对象存储配置
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Enabled 凭据是否完整
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Service 对象存储服务
// 凭据缺失时不构造本服务，依赖它的路由返回 503
type Service struct {
	client *minio.Client
}

// NewService 创建对象存储服务；配置不完整时返回 (nil, nil)
func NewService(cfg Config) (*Service, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	return &Service{client: client}, nil
}

// ContainerInfo 容器信息
type ContainerInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BlobInfo 对象信息
type BlobInfo struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
}

// ValidateContainerName 校验容器名
func ValidateContainerName(name string) error {
	if !containerNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidContainerName, name)
	}
	return nil
}

// ListContainers 列出所有容器
func (s *Service) ListContainers(ctx context.Context) ([]ContainerInfo, error) {
	buckets, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	infos := make([]ContainerInfo, 0, len(buckets))
	for _, b := range buckets {
		infos = append(infos, ContainerInfo{Name: b.Name, CreatedAt: b.CreationDate})
	}
	return infos, nil
}

// CreateContainer 创建容器，名字不合法时报错，已存在时幂等
func (s *Service) CreateContainer(ctx context.Context, name string) error {
	if err := ValidateContainerName(name); err != nil {
		return err
	}
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check container: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	return nil
}

// requireContainer 确认容器存在
func (s *Service) requireContainer(ctx context.Context, name string) error {
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check container: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, name)
	}
	return nil
}

// ListFolders 列出容器下的顶层目录
func (s *Service) ListFolders(ctx context.Context, container string) ([]string, error) {
	if err := s.requireContainer(ctx, container); err != nil {
		return nil, err
	}
	var folders []string
	for obj := range s.client.ListObjects(ctx, container, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list folders: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			folders = append(folders, strings.TrimSuffix(obj.Key, "/"))
		}
	}
	return folders, nil
}

// ListBlobs 列出容器内指定前缀下的全部对象
func (s *Service) ListBlobs(ctx context.Context, container, prefix string) ([]BlobInfo, error) {
	if err := s.requireContainer(ctx, container); err != nil {
		return nil, err
	}
	var blobs []BlobInfo
	for obj := range s.client.ListObjects(ctx, container, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", obj.Err)
		}
		blobs = append(blobs, BlobInfo{
			Name:         obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ContentType:  obj.ContentType,
		})
	}
	return blobs, nil
}

// DeleteBlob 删除对象
func (s *Service) DeleteBlob(ctx context.Context, container, name string) error {
	if err := s.requireContainer(ctx, container); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, container, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// Upload 上传对象
func (s *Service) Upload(ctx context.Context, container, name string, reader io.Reader, size int64) error {
	if err := s.requireContainer(ctx, container); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, container, name, reader, size, minio.PutObjectOptions{
		ContentType: ContentTypeFor(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob: %w", err)
	}
	return nil
}

// SignedURL 生成限时访问链接
func (s *Service) SignedURL(ctx context.Context, container, name string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultSignedURLExpiry
	}
	u, err := s.client.PresignedGetObject(ctx, container, name, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to sign url: %w", err)
	}
	return u.String(), nil
}

// ContentTypeFor 按文件扩展名映射内容类型
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".aac":
		return "audio/aac"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
