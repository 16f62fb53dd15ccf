package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Shelver.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Enqueue submits file paths for processing.
func (c *Client) Enqueue(paths []string) (*EnqueueResponse, error) {
	var resp EnqueueResponse
	if err := c.client.Call("Shelver.Enqueue", EnqueueRequest{Paths: paths}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordList fetches the record snapshot, optionally filtered by status.
func (c *Client) RecordList(statuses []string) (*RecordListResponse, error) {
	var resp RecordListResponse
	if err := c.client.Call("Shelver.RecordList", RecordListRequest{Statuses: statuses}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordDescribe fetches one record by id.
func (c *Client) RecordDescribe(id string) (*RecordDescribeResponse, error) {
	var resp RecordDescribeResponse
	if err := c.client.Call("Shelver.RecordDescribe", RecordDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Clear removes records in the given scope.
func (c *Client) Clear(scope string) (*ClearResponse, error) {
	var resp ClearResponse
	if err := c.client.Call("Shelver.Clear", ClearRequest{Scope: scope}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analytics fetches the aggregate snapshot.
func (c *Client) Analytics() (*AnalyticsResponse, error) {
	var resp AnalyticsResponse
	if err := c.client.Call("Shelver.Analytics", AnalyticsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
