// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultRPCEndpoint   = "https://api.devnet.solana.com"
	DefaultCommitment    = "confirmed"
	DefaultKeypairPath   = "wallet.json"
	DefaultCluster       = "devnet"
	DefaultGatewayURL    = "https://devnet.irys.xyz"
	DefaultTimeout       = 60 * time.Second
	DefaultPollInterval  = 500 * time.Millisecond
	DefaultMintDecimals  = 6
	DefaultTransferUnits = 100000
	DefaultAirdropLamps  = 2_000_000_000
	DefaultSellerFeeBps  = 500
	DefaultKeygenOut     = "dev-wallet.json"
)

// Config はプロセス起動時に 1 度だけ解決される設定値です。
// 値型で受け渡し、解決後に変更しません。
type Config struct {
	// Solana
	RPCEndpoint   string
	Commitment    string
	Cluster       string // explorer link 用 (devnet / testnet / mainnet-beta)
	KeypairPath   string
	KeypairSecret string // Secret Manager の secret version フルパス（設定時はファイルより優先）

	// GCP
	GCPProjectID string
	GCPCreds     string

	// Metadata upload (Irys HTTP uploader / GCS)
	UploadGatewayURL    string
	UploadGatewayAPIKey string
	MetadataBucket      string

	// Submission
	OperationTimeout    time.Duration
	ConfirmPollInterval time.Duration

	// Receipt journal (optional)
	JournalFirestoreCollection string
	JournalDatabaseURL         string

	// Notification (optional)
	SendGridAPIKey string
	SendGridFrom   string
	NotifyTo       string

	// Keygen
	KeygenOut      string
	KeygenSecretID string // 設定時は Secret Manager にも保存（GCP_PROJECT_ID 必須）

	// Operation parameters
	Params OperationParams
}

// OperationParams は各コマンドのリクエスト値です。
type OperationParams struct {
	MintDecimals    uint8
	FreezeAuthority string
	SPLMintAddress  string
	SPLRecipient    string
	SPLAmount       uint64
	MintToAmount    uint64
	MintToOwner     string
	MetadataFile    string
	NFTName         string
	NFTSymbol       string
	NFTMetadataURI  string
	NFTSellerFeeBps uint16
	AirdropLamports uint64
	SOLRecipient    string
	SOLLamports     uint64
	SOLDrain        bool
	BalancesOwner   string
}

// Load は .env（あれば）と環境変数を読み込み Config を返します。
// 数値/期間のパースに失敗した場合はエラーです。
func Load() (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	var errs []error

	cfg := Config{
		RPCEndpoint:   normalizeBaseURL(getenvDefault("SOLANA_RPC_URL", DefaultRPCEndpoint)),
		Commitment:    strings.ToLower(getenvDefault("SOLANA_COMMITMENT", DefaultCommitment)),
		Cluster:       getenvDefault("SOLANA_CLUSTER", DefaultCluster),
		KeypairPath:   getenvDefault("SOLANA_KEYPAIR_PATH", DefaultKeypairPath),
		KeypairSecret: getenvTrim("SOLANA_KEYPAIR_SECRET"),

		GCPProjectID: firstNonEmpty(getenvTrim("GCP_PROJECT_ID"), getenvTrim("GOOGLE_CLOUD_PROJECT")),
		GCPCreds:     getenvTrim("GOOGLE_APPLICATION_CREDENTIALS"),

		UploadGatewayURL:    normalizeBaseURL(firstNonEmpty(getenvTrim("UPLOAD_GATEWAY_URL"), getenvTrim("ARWEAVE_BASE_URL"), DefaultGatewayURL)),
		UploadGatewayAPIKey: getenvTrim("UPLOAD_GATEWAY_API_KEY"),
		MetadataBucket:      getenvTrim("METADATA_BUCKET"),

		JournalFirestoreCollection: getenvTrim("JOURNAL_FIRESTORE_COLLECTION"),
		JournalDatabaseURL:         getenvTrim("JOURNAL_DATABASE_URL"),

		SendGridAPIKey: getenvTrim("SENDGRID_API_KEY"),
		SendGridFrom:   getenvTrim("SENDGRID_FROM"),
		NotifyTo:       getenvTrim("NOTIFY_TO"),

		KeygenOut:      getenvDefault("KEYGEN_OUT", DefaultKeygenOut),
		KeygenSecretID: getenvTrim("KEYGEN_SECRET_ID"),
	}

	cfg.OperationTimeout = parseDuration("OPERATION_TIMEOUT", DefaultTimeout, &errs)
	cfg.ConfirmPollInterval = parseDuration("CONFIRM_POLL_INTERVAL", DefaultPollInterval, &errs)

	p := OperationParams{
		FreezeAuthority: getenvTrim("FREEZE_AUTHORITY"),
		SPLMintAddress:  getenvTrim("SPL_MINT_ADDRESS"),
		SPLRecipient:    getenvTrim("SPL_RECIPIENT"),
		MintToOwner:     getenvTrim("MINT_TO_OWNER"),
		MetadataFile:    getenvTrim("METADATA_FILE"),
		NFTName:         getenvTrim("NFT_NAME"),
		NFTSymbol:       getenvTrim("NFT_SYMBOL"),
		NFTMetadataURI:  getenvTrim("NFT_METADATA_URI"),
		SOLRecipient:    getenvTrim("SOL_RECIPIENT"),
		BalancesOwner:   getenvTrim("BALANCES_OWNER"),
	}
	p.MintDecimals = uint8(parseUint("MINT_DECIMALS", DefaultMintDecimals, 8, &errs))
	p.SPLAmount = parseUint("SPL_AMOUNT", DefaultTransferUnits, 64, &errs)
	p.MintToAmount = parseUint("MINT_TO_AMOUNT", 1_000_000, 64, &errs)
	p.NFTSellerFeeBps = uint16(parseUint("NFT_SELLER_FEE_BPS", DefaultSellerFeeBps, 16, &errs))
	p.AirdropLamports = parseUint("AIRDROP_LAMPORTS", DefaultAirdropLamps, 64, &errs)
	p.SOLLamports = parseUint("SOL_LAMPORTS", 0, 64, &errs)
	p.SOLDrain = parseBool("SOL_DRAIN", &errs)
	cfg.Params = p

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// UsesSecretKeypair reports whether the credential is read from Secret Manager.
func (c Config) UsesSecretKeypair() bool {
	return c.KeypairSecret != ""
}

// NotifyEnabled reports whether outcome emails are configured.
func (c Config) NotifyEnabled() bool {
	return c.SendGridAPIKey != "" && c.NotifyTo != ""
}

// ExplorerTxURL returns the Solana explorer link for a signature.
func (c Config) ExplorerTxURL(sig string) string {
	if sig == "" {
		return ""
	}
	if c.Cluster == "" || c.Cluster == "mainnet-beta" {
		return fmt.Sprintf("https://explorer.solana.com/tx/%s", sig)
	}
	return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=%s", sig, c.Cluster)
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvTrim(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeBaseURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

func parseDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := getenvTrim(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return d
}

func parseBool(key string, errs *[]error) bool {
	v := getenvTrim(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return false
	}
	return b
}

func parseUint(key string, def uint64, bits int, errs *[]error) uint64 {
	v := getenvTrim(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(strings.ReplaceAll(v, "_", ""), 10, bits)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("config: %s: %w", key, err))
		return def
	}
	return n
}
