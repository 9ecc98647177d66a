package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/fetcher"
)

const (
	defaultFTPPort = "21"
	anonymousUser  = "anonymous"
)

// FTPFetcher retrieves files from FTP servers such as NOAA's aftp.cmdl.noaa.gov.
type FTPFetcher struct {
	timeout time.Duration
}

var _ fetcher.Fetcher = (*FTPFetcher)(nil)

// NewFTPFetcher builds a fetcher; zero timeout blocks until the server answers.
func NewFTPFetcher(timeout time.Duration) *FTPFetcher {
	return &FTPFetcher{timeout: timeout}
}

// Schemes lists the URI schemes served by this fetcher.
func (f *FTPFetcher) Schemes() []string {
	return []string{"ftp"}
}

// Fetch logs in (anonymously unless the URL carries credentials) and retrieves the path.
// Closing the returned reader also ends the session.
func (f *FTPFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("invalid ftp locator %s: %w", locator, err)
	}
	if u.Path == "" {
		return nil, fmt.Errorf("ftp locator %s has no file path", locator)
	}

	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if f.timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(f.timeout))
	}

	addr := ftpAddress(u)
	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrResourceUnreachable, addr, err)
	}

	user, password := ftpCredentials(u)
	if err := conn.Login(user, password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("%w: login to %s: %v", domain.ErrResourceUnreachable, addr, err)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("%w: retrieve %s: %v", domain.ErrResourceUnreachable, u.Path, err)
	}

	return &ftpBody{resp: resp, conn: conn}, nil
}

type ftpBody struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (b *ftpBody) Read(p []byte) (int, error) {
	return b.resp.Read(p)
}

func (b *ftpBody) Close() error {
	err := b.resp.Close()
	if quitErr := b.conn.Quit(); err == nil {
		err = quitErr
	}
	return err
}

func ftpAddress(u *url.URL) string {
	port := u.Port()
	if port == "" {
		port = defaultFTPPort
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func ftpCredentials(u *url.URL) (string, string) {
	if u.User == nil || u.User.Username() == "" {
		return anonymousUser, anonymousUser
	}
	password, _ := u.User.Password()
	return u.User.Username(), password
}
