// ABOUTME: C API wrapper for the HostGenie library to enable FFI usage
// ABOUTME: Exposes document mutation and site hosting as JSON-in, JSON-out C functions

package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"context"
	"encoding/json"
	"sync"
	"unsafe"

	"hostgenie-api/api/dto/mappers"
	"hostgenie-api/api/dto/requests"
	"hostgenie-api/core/domain"
	hostgenie "hostgenie-api/hostgenie-lib"
)

var (
	mu     sync.Mutex
	client *hostgenie.Client
)

type publishRequest struct {
	OwnerID    string           `json:"ownerId"`
	AuthorName string           `json:"authorName"`
	Meta       *domain.SiteMeta `json:"meta,omitempty"`
	HTML       string           `json:"html"`
}

func current() *hostgenie.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

func install(c *hostgenie.Client, err error) C.int {
	if err != nil {
		return -1
	}
	mu.Lock()
	old := client
	client = c
	mu.Unlock()
	if old != nil {
		old.Close()
	}
	return 0
}

func jsonString(v interface{}) *C.char {
	data, err := json.Marshal(v)
	if err != nil {
		return errorString("failed to marshal response")
	}
	return C.CString(string(data))
}

func errorString(msg string) *C.char {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return C.CString(string(data))
}

func failure(err error) *C.char {
	data, _ := json.Marshal(map[string]string{
		"error": err.Error(),
		"type":  string(hostgenie.TypeOf(err)),
	})
	return C.CString(string(data))
}

//export HostGenieInit
func HostGenieInit() C.int {
	return install(hostgenie.NewClient(hostgenie.WithQuietMode()))
}

//export HostGenieInitWithStorage
func HostGenieInitWithStorage(cachePath *C.char, sitesPath *C.char) C.int {
	opts := []hostgenie.Option{hostgenie.WithQuietMode()}
	if p := C.GoString(cachePath); p != "" {
		opts = append(opts, hostgenie.WithCacheOption(hostgenie.CacheOption{
			Type:     hostgenie.CacheTypeSQLite,
			FilePath: p,
		}))
	}
	if p := C.GoString(sitesPath); p != "" {
		opts = append(opts, hostgenie.WithSQLiteSites(p))
	}
	return install(hostgenie.NewClient(opts...))
}

//export HostGenieClose
func HostGenieClose() {
	mu.Lock()
	c := client
	client = nil
	mu.Unlock()
	if c != nil {
		c.Close()
	}
}

//export HostGenieApplyMutation
func HostGenieApplyMutation(doc *C.char, mutationJSON *C.char) *C.char {
	c := current()
	if c == nil {
		return errorString("client not initialized")
	}

	var req requests.MutationRequest
	if err := json.Unmarshal([]byte(C.GoString(mutationJSON)), &req); err != nil {
		return errorString("invalid JSON input")
	}
	m, err := mappers.ToMutation(req)
	if err != nil {
		return failure(err)
	}

	out, err := c.Apply(C.GoString(doc), m)
	if err != nil {
		return failure(err)
	}
	return jsonString(map[string]string{"document": out})
}

//export HostGenieInstrument
func HostGenieInstrument(doc *C.char) *C.char {
	c := current()
	if c == nil {
		return errorString("client not initialized")
	}
	return jsonString(map[string]string{"document": c.Instrument(C.GoString(doc))})
}

//export HostGeniePublish
func HostGeniePublish(requestJSON *C.char) *C.char {
	c := current()
	if c == nil {
		return errorString("client not initialized")
	}

	var req publishRequest
	if err := json.Unmarshal([]byte(C.GoString(requestJSON)), &req); err != nil {
		return errorString("invalid JSON input")
	}
	saved, err := c.Publish(context.Background(), req.OwnerID, req.AuthorName, req.Meta, req.HTML)
	if err != nil {
		return failure(err)
	}
	return jsonString(mappers.ToSiteResponse(saved, c.AppURL()))
}

//export HostGenieGetSite
func HostGenieGetSite(id *C.char) *C.char {
	c := current()
	if c == nil {
		return errorString("client not initialized")
	}
	s, err := c.Site(context.Background(), C.GoString(id))
	if err != nil {
		return failure(err)
	}
	return jsonString(map[string]interface{}{
		"site": mappers.ToSiteResponse(s, c.AppURL()),
		"html": s.HTMLContent,
	})
}

//export HostGenieListSites
func HostGenieListSites(limit C.int) *C.char {
	c := current()
	if c == nil {
		return errorString("client not initialized")
	}
	sites, err := c.ListSites(context.Background(), int(limit))
	if err != nil {
		return failure(err)
	}
	return jsonString(mappers.ToSiteList(sites, c.AppURL()))
}

//export HostGenieFreeString
func HostGenieFreeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

func main() {}
