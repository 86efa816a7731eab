package network

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// CheckURL 检查URL对应的主机端口是否可以建立TCP连接
func CheckURL(rawURL string, timeout time.Duration) error {
	address, err := dialAddress(rawURL)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	return nil
}

// dialAddress 从URL得到 host:port，未写端口时按协议补全
func dialAddress(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid url %q: missing host", rawURL)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return "", fmt.Errorf("invalid url %q: unknown scheme", rawURL)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
