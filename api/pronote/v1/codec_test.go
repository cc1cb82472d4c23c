package pronotev1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestCodec_Messages(t *testing.T) {
	var c Codec

	data, err := c.Marshal(&ToggleSubTaskRequest{TaskID: "t1", SubTaskID: "s1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id":"t1","sub_task_id":"s1"}`, string(data))

	var req UpdateTaskRequest
	require.NoError(t, c.Unmarshal([]byte(`{"id":"t1","name":"New"}`), &req))
	assert.Equal(t, "t1", req.ID)
	require.NotNil(t, req.Name)
	assert.Equal(t, "New", *req.Name)
	assert.Nil(t, req.Deadline)
	assert.False(t, req.ReplaceSubTasks)

	assert.Error(t, c.Unmarshal([]byte(`{"id":`), &req))
}

func TestCodec_Empty(t *testing.T) {
	var c Codec

	data, err := c.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	require.NoError(t, c.Unmarshal(data, &emptypb.Empty{}))

	var resp ListUsersResponse
	require.NoError(t, c.Unmarshal(nil, &resp))
	assert.Nil(t, resp.Users)
}
