// Package datauri 在二进制文件与 data:<mime>;base64,<payload> 文本之间转换，
// 用于把图片直接嵌入JSON记录。
package datauri

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	scheme       = "data:"
	base64Marker = ";base64"
)

// File 由data URI还原出的文件
type File struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// DataURI 重新编码为data URI
func (f *File) DataURI() string {
	return EncodeBytes(f.Data, f.MIME)
}

// Size 文件字节数
func (f *File) Size() int {
	return len(f.Data)
}

// DecodeError data URI格式错误
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("datauri: %s: %v", e.Reason, e.Err)
	}
	return "datauri: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Read 读取全部内容并识别MIME类型
func Read(name string, r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", name, err)
	}
	return &File{Name: name, MIME: DetectMIME(data), Data: data}, nil
}

// Encode 读取全部内容并编码为data URI，MIME类型按内容识别
func Encode(r io.Reader) (string, error) {
	f, err := Read("", r)
	if err != nil {
		return "", err
	}
	return f.DataURI(), nil
}

// EncodeBytes 使用指定的MIME类型编码
func EncodeBytes(data []byte, mimeType string) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(mimeType) + len(base64Marker) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(scheme)
	b.WriteString(mimeType)
	b.WriteString(base64Marker)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DetectMIME 识别内容的MIME类型，去掉 charset 等参数
func DetectMIME(data []byte) string {
	m := mimetype.Detect(data).String()
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.TrimSpace(m)
}

// Decode 解析data URI并还原为带文件名的文件
func Decode(s, fileName string) (*File, error) {
	if !strings.HasPrefix(s, scheme) {
		return nil, &DecodeError{Reason: "missing data: scheme"}
	}
	header, payload, ok := strings.Cut(s[len(scheme):], ",")
	if !ok {
		return nil, &DecodeError{Reason: "missing ',' separator"}
	}
	if !strings.HasSuffix(header, base64Marker) {
		return nil, &DecodeError{Reason: "payload is not base64 encoded"}
	}

	mimeType := strings.TrimSuffix(header, base64Marker)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if mimeType == "" || !strings.Contains(mimeType, "/") {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid media type %q", mimeType)}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64 payload", Err: err}
	}

	return &File{Name: fileName, MIME: mimeType, Data: data}, nil
}
