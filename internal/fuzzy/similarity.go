// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fuzzy

// lcsLength calculates the length of the longest common subsequence between
// two strings, compared rune by rune.
func lcsLength(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return 0
	}

	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				lcs[i][j] = lcs[i-1][j-1] + 1
			} else {
				lcs[i][j] = maxInt(lcs[i-1][j], lcs[i][j-1])
			}
		}
	}

	return lcs[m][n]
}

// similarityRatio is a normalized string-similarity score in [0,1] based on
// the longest common subsequence: 2*LCS / (len1+len2). Equal strings score
// 1.0; strings without common runes score 0.0.
func similarityRatio(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	la, lb := len([]rune(s1)), len([]rune(s2))
	if la == 0 || lb == 0 {
		return 0.0
	}
	return 2.0 * float64(lcsLength(s1, s2)) / float64(la+lb)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
