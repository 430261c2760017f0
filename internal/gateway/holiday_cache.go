package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// ErrCacheNotFound 祝日キャッシュが存在しない
var ErrCacheNotFound = errors.New("祝日キャッシュが見つかりません")

func decodeHolidayCache(r io.Reader) (*domain.HolidayCache, error) {
	var cache domain.HolidayCache
	if err := json.NewDecoder(r).Decode(&cache); err != nil {
		return nil, fmt.Errorf("祝日キャッシュのJSON解析に失敗しました: %w", err)
	}
	return &cache, nil
}

func encodeHolidayCache(cache *domain.HolidayCache) ([]byte, error) {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("祝日キャッシュのJSON変換に失敗しました: %w", err)
	}
	return append(data, '\n'), nil
}

// FileHolidayCache ローカルファイルに保存する祝日キャッシュ
type FileHolidayCache struct {
	path string
}

// NewFileHolidayCache ファイルキャッシュを作成
func NewFileHolidayCache(path string) *FileHolidayCache {
	return &FileHolidayCache{path: path}
}

// ReadHolidayCache ファイルから祝日キャッシュを読み込み
func (c *FileHolidayCache) ReadHolidayCache(_ context.Context) (*domain.HolidayCache, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCacheNotFound, c.path)
		}
		return nil, fmt.Errorf("祝日キャッシュファイルを開けません: %w", err)
	}
	defer f.Close()

	return decodeHolidayCache(f)
}

// WriteHolidayCache 一時ファイルに書き出してから置き換える
func (c *FileHolidayCache) WriteHolidayCache(_ context.Context, cache *domain.HolidayCache) error {
	data, err := encodeHolidayCache(cache)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ディレクトリ %s の作成に失敗しました: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".holidays-*.json")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("祝日キャッシュの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("祝日キャッシュの書き込みに失敗しました: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("祝日キャッシュの書き込みに失敗しました: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("祝日キャッシュの権限設定に失敗しました: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("祝日キャッシュの置き換えに失敗しました: %w", err)
	}
	return nil
}

// HTTPHolidayCache 静的配信された祝日キャッシュを読み込む
type HTTPHolidayCache struct {
	url        string
	httpClient *http.Client
}

// NewHTTPHolidayCache HTTPキャッシュを作成
func NewHTTPHolidayCache(url string) *HTTPHolidayCache {
	return &HTTPHolidayCache{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ReadHolidayCache URLから祝日キャッシュを取得
func (c *HTTPHolidayCache) ReadHolidayCache(ctx context.Context) (*domain.HolidayCache, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("祝日キャッシュの取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrCacheNotFound, c.url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("祝日キャッシュの取得に失敗しました (Status: %d)", resp.StatusCode)
	}

	return decodeHolidayCache(resp.Body)
}

// ObjectStore オブジェクトストレージの読み書きを抽象化
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, object string, data []byte, contentType string) error
	GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// minioObjectStore minio-goを使用したObjectStoreの実装
type minioObjectStore struct {
	client *minio.Client
}

// NewMinioObjectStore MinIOクライアントを作成
func NewMinioObjectStore(endpoint, accessKey, secretKey string, useSSL bool) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("MinIOクライアントの作成に失敗しました: %w", err)
	}
	return &minioObjectStore{client: client}, nil
}

func (s *minioObjectStore) PutObject(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *minioObjectStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObjectはリクエストを遅延させるためStatで存在を確認する
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s/%s", ErrCacheNotFound, bucket, object)
		}
		return nil, err
	}
	return obj, nil
}

// ObjectHolidayCache オブジェクトストレージに保存する祝日キャッシュ
type ObjectHolidayCache struct {
	store  ObjectStore
	bucket string
	object string
}

// NewObjectHolidayCache オブジェクトストレージキャッシュを作成
func NewObjectHolidayCache(store ObjectStore, bucket, object string) *ObjectHolidayCache {
	return &ObjectHolidayCache{
		store:  store,
		bucket: bucket,
		object: object,
	}
}

// ReadHolidayCache オブジェクトから祝日キャッシュを読み込み
func (c *ObjectHolidayCache) ReadHolidayCache(ctx context.Context) (*domain.HolidayCache, error) {
	body, err := c.store.GetObject(ctx, c.bucket, c.object)
	if err != nil {
		return nil, fmt.Errorf("オブジェクト %s/%s の取得に失敗しました: %w", c.bucket, c.object, err)
	}
	defer body.Close()

	return decodeHolidayCache(body)
}

// WriteHolidayCache オブジェクトとして祝日キャッシュを保存
func (c *ObjectHolidayCache) WriteHolidayCache(ctx context.Context, cache *domain.HolidayCache) error {
	data, err := encodeHolidayCache(cache)
	if err != nil {
		return err
	}
	if err := c.store.PutObject(ctx, c.bucket, c.object, data, "application/json"); err != nil {
		return fmt.Errorf("オブジェクト %s/%s の保存に失敗しました: %w", c.bucket, c.object, err)
	}
	return nil
}
