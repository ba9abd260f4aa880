package main

import (
	"fmt"

	"github.com/quasar/launchcore/internal/request"
)

func indexRequest(baseURL, uid string) request.DownloadRequest {
	return request.DownloadRequest{Type: request.Index, URL: fmt.Sprintf("%s/%s/index.json", baseURL, uid)}
}
