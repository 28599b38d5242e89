package store

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// Azure keeps one JSON blob per owner in an Azure Storage container, at
// <prefix>/<owner>.json.
type Azure struct {
	client    *azblob.Client
	container string
	prefix    string
	key       string
	mu        sync.Mutex
}

// AzureOptions configures an Azure store.
type AzureOptions struct {
	Account   string
	Key       string
	Container string
	// Prefix separates owner kinds sharing one container.
	Prefix         string
	AssociationKey string
}

// NewAzure creates an Azure store using shared key credentials.
func NewAzure(opts AzureOptions) (*Azure, error) {
	if opts.Account == "" || opts.Container == "" {
		return nil, fmt.Errorf("azure store needs an account and a container")
	}
	key := opts.AssociationKey
	if key == "" {
		key = DefaultAssociationKey
	}
	if e := CheckAssociationKey(key); e != nil {
		return nil, e
	}

	credential, e := azblob.NewSharedKeyCredential(opts.Account, opts.Key)
	if e != nil {
		return nil, fmt.Errorf("azure credentials: %w", e)
	}

	client, e := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", opts.Account),
		credential,
		nil,
	)
	if e != nil {
		return nil, fmt.Errorf("azure client: %w", e)
	}

	return &Azure{client: client, container: opts.Container, prefix: opts.Prefix, key: key}, nil
}

func (a *Azure) blob(owner string) string {
	return path.Join(a.prefix, url.PathEscape(owner)+".json")
}

func (a *Azure) DeleteAll(ctx context.Context, owner string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, e := a.client.DeleteBlob(ctx, a.container, a.blob(owner), nil)
	if e != nil && !bloberror.HasCode(e, bloberror.BlobNotFound) {
		return fmt.Errorf("delete rows for %s: %w", owner, e)
	}
	return nil
}

func (a *Azure) Create(ctx context.Context, owner string, r Row) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows, e := a.read(ctx, owner)
	if e != nil {
		return e
	}
	r.Owner = owner
	rows = append(rows, r)

	data, e := encodeRows(a.key, owner, rows)
	if e != nil {
		return e
	}
	if _, e := a.client.UploadBuffer(ctx, a.container, a.blob(owner), data, nil); e != nil {
		return fmt.Errorf("upload rows for %s: %w", owner, e)
	}
	return nil
}

func (a *Azure) List(ctx context.Context, owner string) ([]Row, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.read(ctx, owner)
}

func (a *Azure) read(ctx context.Context, owner string) ([]Row, error) {
	resp, e := a.client.DownloadStream(ctx, a.container, a.blob(owner), nil)
	if bloberror.HasCode(e, bloberror.BlobNotFound) {
		return nil, nil
	}
	if e != nil {
		return nil, fmt.Errorf("download rows for %s: %w", owner, e)
	}
	defer resp.Body.Close()

	data, e := io.ReadAll(resp.Body)
	if e != nil {
		return nil, fmt.Errorf("download rows for %s: %w", owner, e)
	}
	return decodeRows(a.key, data)
}
