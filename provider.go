package konfoo

import (
	"fmt"
	"log/slog"
	"os"
)

// Provider is a random-access data source for pointer indirection. Read must
// return exactly count bytes at address or an error; Write replaces the bytes
// at address.
//
// Implementations back the address space however they like: a byte slice, a
// file, a register map behind a transport. Providers are not required to be
// safe for concurrent use.
type Provider interface {
	Read(address uint64, count int) ([]byte, error)
	Write(address uint64, buf []byte) error
}

// BytesProvider is an in-memory provider over a byte slice. Address zero is
// the first byte of the slice.
type BytesProvider struct {
	data []byte
}

var _ Provider = (*BytesProvider)(nil)

// NewBytesProvider creates a provider over a copy of data.
func NewBytesProvider(data []byte) *BytesProvider {
	return &BytesProvider{data: append([]byte(nil), data...)}
}

// Bytes returns the backing buffer, shared with the provider.
func (p *BytesProvider) Bytes() []byte { return p.data }

// Read returns a copy of count bytes starting at address.
func (p *BytesProvider) Read(address uint64, count int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative read count %d", ErrProviderRange, count)
	}
	end := address + uint64(count)
	if end < address || end > uint64(len(p.data)) {
		return nil, fmt.Errorf("%w: read of %d bytes at address %#x, size %d",
			ErrProviderRange, count, address, len(p.data))
	}
	return append([]byte(nil), p.data[address:end]...), nil
}

// Write replaces len(buf) bytes starting at address.
func (p *BytesProvider) Write(address uint64, buf []byte) error {
	end := address + uint64(len(buf))
	if end < address || end > uint64(len(p.data)) {
		return fmt.Errorf("%w: write of %d bytes at address %#x, size %d",
			ErrProviderRange, len(buf), address, len(p.data))
	}
	copy(p.data[address:], buf)
	return nil
}

// FileProvider is a provider over a file's contents. The file is read once at
// creation; reads and writes operate on the in-memory copy, and Flush writes
// the copy back to disk.
type FileProvider struct {
	BytesProvider
	path   string
	logger *slog.Logger
}

var _ Provider = (*FileProvider)(nil)

// FileProviderOption configures a FileProvider.
type FileProviderOption func(*FileProvider)

// WithFileLogger sets the logger for provider access traces.
func WithFileLogger(logger *slog.Logger) FileProviderOption {
	return func(p *FileProvider) { p.logger = logger }
}

// NewFileProvider creates a provider over the contents of the file at path.
func NewFileProvider(path string, opts ...FileProviderOption) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &FileProvider{BytesProvider: BytesProvider{data: data}, path: path}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p, nil
}

// Path returns the backing file path.
func (p *FileProvider) Path() string { return p.path }

func (p *FileProvider) Write(address uint64, buf []byte) error {
	if err := p.BytesProvider.Write(address, buf); err != nil {
		return err
	}
	p.logger.Debug("konfoo: provider write", "path", p.path, "address", address, "size", len(buf))
	return nil
}

// Flush writes the in-memory copy back to the backing file.
func (p *FileProvider) Flush() error {
	p.logger.Debug("konfoo: provider flush", "path", p.path, "size", len(p.data))
	return os.WriteFile(p.path, p.data, 0o644)
}
