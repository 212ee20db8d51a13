package catalog

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/neerchitra/neerchitra-cli/internal/model"
)

// defaultFTPTimeout bounds the single connection attempt.
const defaultFTPTimeout = 30 * time.Second

// FTPSource downloads a CSV catalog from an ftp:// URL. One attempt,
// anonymous login; district hydrology mirrors publish the survey tables
// this way. Failures surface immediately, retry policy belongs to the
// caller's scheduler if it has one.
type FTPSource struct {
	URL     string
	Timeout time.Duration
}

// NewFTPSource returns a source downloading the given ftp:// CSV URL.
func NewFTPSource(rawURL string, timeout time.Duration) *FTPSource {
	if timeout <= 0 {
		timeout = defaultFTPTimeout
	}
	return &FTPSource{URL: rawURL, Timeout: timeout}
}

// Name implements Source.
func (s *FTPSource) Name() string { return SourceFTP }

// Load implements Source.
func (s *FTPSource) Load(ctx context.Context) ([]model.LakeRecord, error) {
	host, path, err := splitFTPURL(s.URL)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("catalog: ftp download",
		zap.String("host", host),
		zap.String("path", path),
	)

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(s.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrap(err, "catalog: ftp dial")
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return nil, eris.Wrap(err, "catalog: ftp login")
	}

	resp, err := conn.Retr(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: ftp retrieve %s", path)
	}
	defer resp.Close() //nolint:errcheck

	lakes, err := ParseCSV(resp)
	if err != nil {
		return nil, err
	}

	zap.L().Info("catalog: ftp catalog loaded",
		zap.String("url", s.URL),
		zap.Int("lakes", len(lakes)),
	)
	return lakes, nil
}

// splitFTPURL extracts host (with port defaulted to 21) and path from an
// ftp URL.
func splitFTPURL(rawURL string) (host string, path string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", eris.Wrap(err, "catalog: parse ftp url")
	}
	if u.Scheme != "ftp" {
		return "", "", eris.Errorf("catalog: expected ftp scheme, got %q", u.Scheme)
	}

	host = u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	if u.Path == "" {
		return "", "", eris.New("catalog: empty path in ftp url")
	}
	return host, u.Path, nil
}
