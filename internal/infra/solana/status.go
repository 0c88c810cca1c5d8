// internal/infra/solana/status.go
package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/rpc"
)

// StatusRPC は blocto rpc.RpcClient のうち、セッション開始時の health 確認と
// 送信後の signature status ポーリングで使うメソッドです。
type StatusRPC interface {
	GetHealth(ctx context.Context) (rpc.JsonRpcResponse[string], error)
	GetSignatureStatusesWithConfig(ctx context.Context, signatures []string, cfg rpc.GetSignatureStatusesConfig) (rpc.JsonRpcResponse[rpc.ValueWithContext[rpc.SignatureStatuses]], error)
}

var _ StatusRPC = (*rpc.RpcClient)(nil)

var errNodeUnhealthy = errors.New("solana rpc: node unhealthy")

// checkHealth calls getHealth; a healthy node answers "ok".
// rpc.RpcClient does not surface the JSON-RPC error object as an error, so it is checked here.
func checkHealth(ctx context.Context, st StatusRPC) error {
	resp, err := st.GetHealth(ctx)
	if err != nil {
		return err
	}
	if rpcErr := resp.GetError(); rpcErr != nil {
		return fmt.Errorf("%w: %v", errNodeUnhealthy, rpcErr)
	}
	if resp.Result != "ok" {
		return fmt.Errorf("%w: getHealth returned %q", errNodeUnhealthy, resp.Result)
	}
	return nil
}

// signatureStatus returns the status of one signature, nil while the node has not seen it.
func signatureStatus(ctx context.Context, st StatusRPC, sig string) (*rpc.SignatureStatus, error) {
	resp, err := st.GetSignatureStatusesWithConfig(ctx, []string{sig}, rpc.GetSignatureStatusesConfig{})
	if err != nil {
		return nil, err
	}
	if rpcErr := resp.GetError(); rpcErr != nil {
		return nil, rpcErr
	}
	if n := len(resp.Result.Value); n != 1 {
		return nil, fmt.Errorf("solana rpc: getSignatureStatuses returned %d entries for 1 signature", n)
	}
	return resp.Result.Value[0], nil
}

func statusFailed(st *rpc.SignatureStatus) bool {
	return st != nil && st.Err != nil
}

func statusRank(st *rpc.SignatureStatus) int {
	if st.ConfirmationStatus != nil {
		switch *st.ConfirmationStatus {
		case rpc.CommitmentProcessed:
			return 1
		case rpc.CommitmentConfirmed:
			return 2
		case rpc.CommitmentFinalized:
			return 3
		}
	}
	// 旧ノード: confirmationStatus なし + confirmations=null は rooted
	if st.Confirmations == nil {
		return 3
	}
	return 1
}
