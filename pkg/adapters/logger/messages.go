package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Opening %s":                                  "%s を開いています",
		"Video stream: %s %dx%d, time base %s":        "映像ストリーム: %s %dx%d, タイムベース %s",
		"Playback finished (%s): %d frames in %.2f s": "再生終了 (%s): %d フレーム / %.2f 秒",
		"Report saved to %s":                          "レポートを %s に保存しました",
		"Output saved to %s":                          "出力を %s に保存しました",

		// Probe and decoder (ffmpeg component)
		"Format %s, duration %d us":                            "形式 %s, 再生時間 %d us",
		"Stream #%d: %s %s":                                    "ストリーム #%d: %s %s",
		"Stream #%d: video %s %dx%d, bitrate %d":               "ストリーム #%d: 映像 %s %dx%d, ビットレート %d",
		"Stream #%d: audio %s, %d channels, %d Hz, bitrate %d": "ストリーム #%d: 音声 %s, %d チャンネル, %d Hz, ビットレート %d",
		"Video resolution: %d x %d":                            "映像解像度: %d x %d",
		"Decoder %s, time base %s, pixel format %s":            "デコーダ %s, タイムベース %s, ピクセル形式 %s",
		"Decoder drained":                                      "デコーダを出し切りました",
		"Session closed":                                       "セッションを閉じました",
		"Scaler ready: %dx%d %s -> rgba":                       "スケーラ準備完了: %dx%d %s -> rgba",

		// Playback driver
		"Frame at %.3fs is in the final second, stopping": "%.3f 秒のフレームは最後の1秒に含まれるため停止します",
		"Timestamp went backwards: %d after %d":           "タイムスタンプが逆行しました: %d (直前 %d)",
		"%d frames were shown late, worst by %v":          "%d フレームが遅れて表示されました (最大 %v)",

		// Surface
		"Window opened: %dx%d drawable": "ウィンドウを開きました: 描画領域 %dx%d",
		"Texture allocated: %dx%d":      "テクスチャを確保しました: %dx%d",
		"Surface resized to %dx%d":      "表示領域を %dx%d に変更しました",

		// Contact sheet
		"Sampling %s every %v":                    "%s を %v ごとに抽出中",
		"Sampled %d frames":                       "%d フレームを抽出しました",
		"Sampled %d of %d frames":                 "%d / %d フレームを抽出しました",
		"Reached %d thumbnails":                   "サムネイルが %d 枚に達しました",
		"Layout calculated: %dx%d sheet, %d rows": "レイアウト計算完了: %dx%d シート, %d 行",
		"Scaling %d thumbnails with %d workers":   "%d 枚のサムネイルを %d ワーカーで縮小中",
		"Sheet composed: %dx%d":                   "シート合成完了: %dx%d",
		"Stage %s took %v":                        "ステージ %s の所要時間 %v",

		// Warnings
		"Skipping frame: %v":                "フレームをスキップします: %v",
		"Failed to save debug frame %d: %v": "デバッグフレーム %d の保存に失敗しました: %v",
		"Failed to save debug summary: %v":  "デバッグサマリーの保存に失敗しました: %v",
		"Failed to save stream info: %v":    "ストリーム情報の保存に失敗しました: %v",
		"Failed to write report: %v":        "レポートの書き込みに失敗しました: %v",
		"Failed to close decoder: %v":       "デコーダのクローズに失敗しました: %v",
		"Failed to close surface: %v":       "表示先のクローズに失敗しました: %v",
		"Teardown failed: %v":               "後片付けに失敗しました: %v",

		// Errors
		"Failed to open %s: %v":               "%s を開けませんでした: %v",
		"Failed to open surface: %v":          "表示先を開けませんでした: %v",
		"Playback aborted: %v":                "再生を中断しました: %v",
		"Playback failed after %d frames: %v": "%d フレーム後に再生が失敗しました: %v",
		"Failed to sample frames: %v":         "フレームの抽出に失敗しました: %v",
		"Failed to compose sheet: %v":         "シートの合成に失敗しました: %v",
		"Failed to write output: %v":          "出力の書き込みに失敗しました: %v",
	})
}
