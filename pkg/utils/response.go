package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"k8s.io/klog/v2"
)

// maxBodyBytes 限制请求体大小
const maxBodyBytes = 64 << 10

// errorBody 统一的错误响应结构
type errorBody struct {
	Error string `json:"error"`
}

// RespondJSON 写入状态码并以JSON编码payload
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		klog.V(2).InfoS("response encode failed", "status", status, "err", err)
	}
}

// RespondError 以 {"error": message} 形式返回错误
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, errorBody{Error: message})
}

// DecodeJSON 读取有大小限制的JSON请求体，空请求体视为错误
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
